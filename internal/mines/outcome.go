package mines

import "fmt"

type Outcome int

const (
	InProgress Outcome = iota
	Won
	Lost
)

var outcomeNames = map[Outcome]string{
	InProgress: "in_progress",
	Won:        "won",
	Lost:       "lost",
}

func (o Outcome) Terminal() bool {
	return o == Won || o == Lost
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// [Outcome] implements [encoding.TextMarshaler]
func (o Outcome) MarshalText() ([]byte, error) {
	name, ok := outcomeNames[o]
	if !ok {
		return nil, fmt.Errorf("unknown outcome %d", int(o))
	}
	return []byte(name), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for outcome, name := range outcomeNames {
		if name == string(text) {
			*o = outcome
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}
