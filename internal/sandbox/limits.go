package sandbox

import "time"

// Fixed execution bounds shared by the bash and document-search tools.
const (
	DefaultTimeout = 30 * time.Second

	// File reads are capped at 50KB or 1000 lines, whichever comes first.
	ReadMaxBytes = 50 * 1024
	ReadMaxLines = 1000

	// Document search returns at most 100 matches with 2 context lines each.
	SearchMaxCount     = 100
	SearchContextLines = 2
)
