package mockinterview

// Action names a user transition on a question.
type Action string

const (
	ActionTry        Action = "try"
	ActionSkip       Action = "skip"
	ActionLater      Action = "later"
	ActionInput      Action = "input"
	ActionLanguage   Action = "language"
	ActionSubmit     Action = "submit"
	ActionSolution   Action = "solution"
	ActionMore       Action = "more"
	ActionRegenerate Action = "regenerate"
	ActionSimilar    Action = "similar"
	ActionFinish     Action = "finish"
)

// ParseAction maps a path segment to an action routed through Manager.Act.
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionTry, ActionSkip, ActionLater, ActionSubmit, ActionSolution,
		ActionMore, ActionRegenerate, ActionSimilar, ActionFinish:
		return a, true
	}
	return "", false
}

// Placeholder texts substituted when a collaborator call fails.
const (
	QuestionFailedText       = "Failed to generate question. Please try again."
	AnalysisFailedText       = "Error analyzing your answer. Please try again."
	SolutionFailedText       = "Failed to generate solution."
	SolutionEmptyText        = "No solution returned."
	ToggleSolutionFailedText = "Failed to generate solution. Please try again."
	ToggleSolutionEmptyText  = "No solution received."
	EmptyAnswerText          = "Please don't submit an empty answer."
	PersistFailedNotice      = "Your answer was analyzed but could not be saved to your history."
	FinishedTextFormat       = "%s type finished."
)

// Actions returns the transitions q currently offers. A question in a
// finished category offers nothing.
func Actions(q *Question, finished bool) []Action {
	if finished {
		return nil
	}

	var out []Action
	if q.ShowSolution != SolutionLoading {
		out = append(out, ActionSolution)
	}

	switch q.Submitted {
	case NotStarted:
		out = append(out, ActionTry)
		if q.Skipped {
			if !q.MoreQuestionClicked {
				out = append(out, ActionMore)
			}
			break
		}
		if q.GenerateCount >= MaxGenerateCount {
			out = append(out, ActionFinish)
		} else {
			out = append(out, ActionSkip)
		}
	case Pending:
		out = append(out, ActionInput)
		if q.Type == CategoryCoding {
			out = append(out, ActionLanguage)
		}
		out = append(out, ActionSubmit, ActionLater)
	case Done:
		out = append(out, ActionFinish)
		if q.HasContext() {
			out = append(out, ActionSimilar)
		}
		if q.GenerateCount >= MaxGenerateCount {
			out = append(out, ActionRegenerate)
		} else {
			out = append(out, ActionMore)
		}
	}
	return out
}

func offers(q *Question, finished bool, a Action) bool {
	for _, have := range Actions(q, finished) {
		if have == a {
			return true
		}
	}
	return false
}
