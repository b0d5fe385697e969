package exitcode

const (
	Success          = 0
	UsageError       = 1
	ValidationError  = 2
	SourceError      = 3
	DestinationError = 4
	JournalError     = 5
	PartialSuccess   = 6
)
