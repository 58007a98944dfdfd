package step

import "fmt"

// SyntaxError reports a lexical or grammatical defect together with the
// byte offset where it was detected.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("step: %s at byte %d", e.Msg, e.Offset)
}

// RefError reports a dangling entity reference: entity #From mentions
// #To, but #To is not present in the model.
type RefError struct {
	From int64
	To   int64
}

func (e *RefError) Error() string {
	return fmt.Sprintf("step: #%d references missing entity #%d", e.From, e.To)
}
