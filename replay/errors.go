package replay

import "fmt"

type ReplayError struct {
	StepIndex int32  `json:"step_index"`
	Reason    string `json:"reason"`
	Message   string `json:"message"`
	Line      string `json:"line,omitempty"`
}

func (e *ReplayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("replay error(step=%d reason=%s): %s", e.StepIndex, e.Reason, e.Message)
}
