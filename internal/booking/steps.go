package booking

import (
	"encoding/json"
	"fmt"
)

// Step is one stage of the linear booking wizard. Steps are strictly
// ordered; free navigation only moves between adjacent steps.
type Step int

const (
	StepServiceSelection Step = iota
	StepTimeSlotSelection
	StepCustomerInfo
	StepConfirmation
)

var stepNames = map[Step]string{
	StepServiceSelection:  "service_selection",
	StepTimeSlotSelection: "time_slot_selection",
	StepCustomerInfo:      "customer_info",
	StepConfirmation:      "confirmation",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// MarshalJSON renders the step as its wire name.
func (s Step) MarshalJSON() ([]byte, error) {
	name, ok := stepNames[s]
	if !ok {
		return nil, fmt.Errorf("booking: unknown step %d", int(s))
	}
	return json.Marshal(name)
}

// UnmarshalJSON parses a wire name back into a Step.
func (s *Step) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for step, n := range stepNames {
		if n == name {
			*s = step
			return nil
		}
	}
	return fmt.Errorf("booking: unknown step %q", name)
}
