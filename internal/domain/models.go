// Package domain defines the record types held by the in-memory store:
// questions and the answers that point back at them.
package domain

import "slices"

// Question is a single question record.
//
// Fields:
//   - ID: store-assigned UUID, immutable after creation.
//   - Title: non-empty text.
//   - Content: free text, may be empty.
//   - Tags: optional set of short labels. A nil slice means "no tags" and is
//     serialized as null; an empty slice is an explicit empty set ([]).
type Question struct {
	ID      string   `json:"id"      example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Title   string   `json:"title"   example:"How do I cancel a context?"`
	Content string   `json:"content" example:"I start a goroutine and want it to stop."`
	Tags    []string `json:"tags"    example:"go,context"`
}

// Clone returns a deep copy of q. The nil/empty distinction of Tags is kept.
func (q Question) Clone() Question {
	q.Tags = slices.Clone(q.Tags)
	return q
}

// QuestionInput is the caller-supplied field set for creating or replacing
// a question. The id is never taken from input.
type QuestionInput struct {
	Title   string   `json:"title"   example:"How do I cancel a context?"`
	Content string   `json:"content" example:"I start a goroutine and want it to stop."`
	Tags    []string `json:"tags"    example:"go,context"`
}

// Answer is a reply to a question. QuestionID is a non-owning reference:
// answers outlive the question they point at.
type Answer struct {
	ID         string `json:"id"          example:"9b2d7c1e-0f55-4c1a-8f35-2f3b8e9f2a10"`
	Content    string `json:"content"     example:"Call the cancel func returned by context.WithCancel."`
	QuestionID string `json:"question_id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// AnswerInput is the caller-supplied field set for creating an answer.
// It binds from both form and JSON bodies.
type AnswerInput struct {
	Content    string `json:"content"     form:"content"     example:"Call the cancel func returned by context.WithCancel."`
	QuestionID string `json:"question_id" form:"question_id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// ToQuestion builds a Question carrying id and a deep copy of the input fields.
func (in QuestionInput) ToQuestion(id string) Question {
	return Question{
		ID:      id,
		Title:   in.Title,
		Content: in.Content,
		Tags:    slices.Clone(in.Tags),
	}
}

// ToAnswer builds an Answer carrying id and the input fields.
func (in AnswerInput) ToAnswer(id string) Answer {
	return Answer{
		ID:         id,
		Content:    in.Content,
		QuestionID: in.QuestionID,
	}
}
