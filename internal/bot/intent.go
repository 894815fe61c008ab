package bot

import "strings"

// IntentKind is the classified purpose of an inbound text.
type IntentKind int

const (
	IntentLookup IntentKind = iota
	IntentStart
	IntentHelp
	IntentAddCode
	IntentDeleteCode
	IntentListCodes
	IntentStats
	IntentUnknown
)

const DefaultStartTrigger = "/start"

const (
	cmdAddCode    = "/addcode"
	cmdDeleteCode = "/deletecode"
	cmdListCodes  = "/listcodes"
	cmdHelp       = "/help"
	cmdStats      = "/stats"
)

func (k IntentKind) String() string {
	switch k {
	case IntentLookup:
		return "lookup"
	case IntentStart:
		return "start"
	case IntentHelp:
		return "help"
	case IntentAddCode:
		return "addcode"
	case IntentDeleteCode:
		return "deletecode"
	case IntentListCodes:
		return "listcodes"
	case IntentStats:
		return "stats"
	default:
		return "unknown"
	}
}

// AdminOnly reports whether the intent requires the configured admin.
func (k IntentKind) AdminOnly() bool {
	switch k {
	case IntentAddCode, IntentDeleteCode, IntentListCodes, IntentStats:
		return true
	}
	return false
}

// Intent is the result of classifying an update's text. Only the fields
// relevant to Kind are set.
type Intent struct {
	Kind     IntentKind
	Command  string // command token without @botname, set for commands
	Code     string // addcode, deletecode
	Response string // addcode
	Text     string // lookup key
}

// Classify maps text to exactly one intent. The first whitespace separated
// token decides; everything that is not a slash command is a lookup.
func Classify(text, startTrigger string) Intent {
	if startTrigger == "" {
		startTrigger = DefaultStartTrigger
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Intent{Kind: IntentLookup}
	}

	command := fields[0]
	args := fields[1:]
	if strings.HasPrefix(command, "/") {
		// Telegram appends the bot name in groups: /addcode@my_bot
		if at := strings.IndexByte(command, '@'); at > 0 {
			command = command[:at]
		}
	}

	switch {
	case command == startTrigger || strings.TrimSpace(text) == startTrigger:
		return Intent{Kind: IntentStart, Command: command}
	case command == cmdAddCode:
		intent := Intent{Kind: IntentAddCode, Command: command}
		if len(args) > 0 {
			intent.Code = args[0]
			intent.Response = strings.Join(args[1:], " ")
		}
		return intent
	case command == cmdDeleteCode:
		intent := Intent{Kind: IntentDeleteCode, Command: command}
		if len(args) > 0 {
			intent.Code = args[0]
		}
		return intent
	case command == cmdListCodes:
		return Intent{Kind: IntentListCodes, Command: command}
	case command == cmdHelp:
		return Intent{Kind: IntentHelp, Command: command}
	case command == cmdStats:
		return Intent{Kind: IntentStats, Command: command}
	case strings.HasPrefix(command, "/") && len(command) > 1:
		return Intent{Kind: IntentUnknown, Command: command}
	default:
		return Intent{Kind: IntentLookup, Text: strings.TrimSpace(text)}
	}
}
