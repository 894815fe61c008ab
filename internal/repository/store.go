package repository

// Store groups the repositories the bot works with.
type Store struct {
	*CodeRepository
	*UserRepository
}

func NewStore(db *Database) *Store {
	return &Store{
		CodeRepository: NewCodeRepository(db),
		UserRepository: NewUserRepository(db),
	}
}
