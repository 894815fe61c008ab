package bot

import (
	"fmt"
	"strings"
)

const (
	replyCodeNotFound     = "Code not found"
	replyAdminOnly        = "Only admin can use this command"
	replyNoCodes          = "No codes added yet"
	replyStoreUnavailable = "⚠️ Database unavailable, please try again later"
	replyInternalError    = "Something went wrong, please try again later"
	replyAddCodeUsage     = "Usage: /addcode <code> <response>"
	replyDeleteCodeUsage  = "Usage: /deletecode <code>"
)

func welcomeText(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("👋 Welcome, %s!\nSend me a code and I will reply with what is stored for it.\nType /help to see the commands.", name)
}

func helpText(admin bool) string {
	var b strings.Builder
	b.WriteString("ℹ️ Commands\n")
	b.WriteString("• /start — greeting\n")
	b.WriteString("• /help — this message\n")
	b.WriteString("• any other text — look up a code")
	if admin {
		b.WriteString("\n\nAdmin\n")
		b.WriteString("• /addcode <code> <response> — add or replace a code\n")
		b.WriteString("• /deletecode <code> — remove a code\n")
		b.WriteString("• /listcodes — list all codes\n")
		b.WriteString("• /stats — number of codes and users")
	}
	return b.String()
}

func codeSavedText(code string) string {
	return fmt.Sprintf("✅ Code %s saved", code)
}

func codeDeletedText(code string) string {
	return fmt.Sprintf("🗑 Code %s deleted", code)
}

func codeListText(codes []string) string {
	if len(codes) == 0 {
		return replyNoCodes
	}
	lines := make([]string, 0, len(codes)+1)
	lines = append(lines, "📋 Codes:")
	for _, c := range codes {
		lines = append(lines, "• "+c)
	}
	return strings.Join(lines, "\n")
}

func statsText(codes, users int64) string {
	return fmt.Sprintf("📊 Codes: %d\n👥 Users: %d", codes, users)
}

func unknownCommandText(command string) string {
	return fmt.Sprintf("Unknown command %s. Type /help for the list of commands.", command)
}
