package model

// Security a tradable instrument in the algorithm's universe
type Security struct {
	Symbol string `json:"symbol"`
	Market string `json:"market,omitempty"`
}

// SecurityChanges universe additions and removals delivered to portfolio models
type SecurityChanges struct {
	Added   []Security `json:"added"`
	Removed []Security `json:"removed"`
}

// NoSecurityChanges returns the empty descriptor.
func NoSecurityChanges() SecurityChanges {
	return SecurityChanges{}
}

func (c SecurityChanges) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

func (c SecurityChanges) Count() int {
	return len(c.Added) + len(c.Removed)
}

func (c SecurityChanges) AddedSymbols() []string {
	return symbolsOf(c.Added)
}

func (c SecurityChanges) RemovedSymbols() []string {
	return symbolsOf(c.Removed)
}

func symbolsOf(secs []Security) []string {
	out := make([]string, 0, len(secs))
	for _, s := range secs {
		out = append(out, s.Symbol)
	}
	return out
}
