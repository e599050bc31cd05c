package model

// EditResult is what the day editor hands to the entry store: either an
// Upsert or a Delete.
type EditResult interface {
	editResult()
}

// Upsert stores Entry, inserting it when it has no ID yet.
type Upsert struct {
	Entry WorkEntry
}

// Delete removes the entry with ID that is keyed to Date.
type Delete struct {
	ID   string
	Date string
}

func (Upsert) editResult() {}
func (Delete) editResult() {}
