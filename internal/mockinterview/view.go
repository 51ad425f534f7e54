package mockinterview

import "fmt"

// QuestionView is a question as presented to the client.
type QuestionView struct {
	Position int      `json:"position"`
	Type     Category `json:"type"`
	Finished bool     `json:"finished"`
	// Placeholder replaces the question body once its category is finished.
	Placeholder string    `json:"placeholder,omitempty"`
	Question    *Question `json:"question,omitempty"`
	Actions     []Action  `json:"actions"`
}

// Warning is the empty-answer notice bound to one question position.
type Warning struct {
	Position   int    `json:"position"`
	QuestionID string `json:"question_id"`
	Message    string `json:"message"`
}

// View is the client-facing rendering of a session.
type View struct {
	ID              string            `json:"id"`
	ApplicationID   string            `json:"application_id"`
	ResumeTag       string            `json:"resume_tag"`
	PositionDisplay string            `json:"position_display"`
	Selected        map[Category]bool `json:"selected"`
	Finished        map[Category]bool `json:"finished"`
	Generated       bool              `json:"generated"`
	Questions       []QuestionView    `json:"questions"`
	Warning         *Warning          `json:"warning,omitempty"`
}

// BuildView lists the questions of selected categories in sequence order.
// Positions are indexes into that filtered list.
func BuildView(s *Session) View {
	v := View{
		ID:              s.ID,
		ApplicationID:   s.Context.ApplicationID.String(),
		ResumeTag:       s.Context.ResumeTag,
		PositionDisplay: s.Context.PositionDisplay,
		Selected:        s.Selected,
		Finished:        s.Finished,
		Generated:       s.Generated,
		Questions:       []QuestionView{},
	}

	for i := range s.Questions {
		q := &s.Questions[i]
		if !s.Selected[q.Type] {
			continue
		}
		qv := QuestionView{
			Position: len(v.Questions),
			Type:     q.Type,
			Finished: s.Finished[q.Type],
			Actions:  Actions(q, s.Finished[q.Type]),
		}
		if qv.Actions == nil {
			qv.Actions = []Action{}
		}
		if qv.Finished {
			qv.Placeholder = fmt.Sprintf(FinishedTextFormat, q.Type)
		} else {
			qv.Question = q
		}
		if s.EmptyAnswerQuestion != "" && s.EmptyAnswerQuestion == q.ID && !qv.Finished {
			v.Warning = &Warning{Position: qv.Position, QuestionID: q.ID, Message: EmptyAnswerText}
		}
		v.Questions = append(v.Questions, qv)
	}
	return v
}
