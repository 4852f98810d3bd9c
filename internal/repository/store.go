package repository

import "database/sql"

// Store bundles every repository behind one value.  The service layer
// declares narrow interfaces over the methods it needs; embedding keeps the
// combined method set flat so a single *Store satisfies all of them.
type Store struct {
	*UserRepo
	*SurveyRepo
	*QuestionRepo
	*ResponseRepo
	*ProgressRepo
	*SyncLogRepo
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		UserRepo:     NewUserRepo(db),
		SurveyRepo:   NewSurveyRepo(db),
		QuestionRepo: NewQuestionRepo(db),
		ResponseRepo: NewResponseRepo(db),
		ProgressRepo: NewProgressRepo(db),
		SyncLogRepo:  NewSyncLogRepo(db),
	}
}
