package analysis

import "errors"

// ErrNotRelevant marks an article with no defense signal at all. It is a
// valid classification outcome, not a failure: the assembler produces no
// record and the caller excludes the article from persistence.
var ErrNotRelevant = errors.New("article is not defense-relevant")

// ErrInvalidArticle marks input that cannot be analyzed (empty content or
// missing URL). The article is skipped; no partial state is produced.
var ErrInvalidArticle = errors.New("invalid article")
