package ecgformat

// Class groups beat symbols the way the AAMI EC57 standard does
type Class int

const (
	ClassOther Class = iota // rhythm, signal quality and unknown codes
	ClassNormal
	ClassSupraventricular
	ClassVentricular
	ClassFusion
	ClassUnclassifiable
)

func (c Class) String() string {
	switch c {
	case ClassNormal:
		return "N"
	case ClassSupraventricular:
		return "S"
	case ClassVentricular:
		return "V"
	case ClassFusion:
		return "F"
	case ClassUnclassifiable:
		return "Q"
	default:
		return "-"
	}
}

// SymbolInfo describes one annotation code
type SymbolInfo struct {
	Symbol      string
	Description string
	Class       Class
}

// MIT-BIH annotation codes
var catalogue = map[string]SymbolInfo{
	"N":  {"N", "Normal beat", ClassNormal},
	"L":  {"L", "Left bundle branch block beat", ClassNormal},
	"R":  {"R", "Right bundle branch block beat", ClassNormal},
	"e":  {"e", "Atrial escape beat", ClassNormal},
	"j":  {"j", "Nodal (junctional) escape beat", ClassNormal},
	"A":  {"A", "Atrial premature beat", ClassSupraventricular},
	"a":  {"a", "Aberrated atrial premature beat", ClassSupraventricular},
	"J":  {"J", "Nodal (junctional) premature beat", ClassSupraventricular},
	"S":  {"S", "Supraventricular premature beat", ClassSupraventricular},
	"V":  {"V", "Premature ventricular contraction", ClassVentricular},
	"E":  {"E", "Ventricular escape beat", ClassVentricular},
	"F":  {"F", "Fusion of ventricular and normal beat", ClassFusion},
	"/":  {"/", "Paced beat", ClassUnclassifiable},
	"f":  {"f", "Fusion of paced and normal beat", ClassUnclassifiable},
	"Q":  {"Q", "Unclassifiable beat", ClassUnclassifiable},
	"+":  {"+", "Rhythm change", ClassOther},
	"~":  {"~", "Signal quality change", ClassOther},
	"|":  {"|", "Isolated QRS-like artifact", ClassOther},
	"x":  {"x", "Non-conducted P-wave", ClassOther},
	"!":  {"!", "Ventricular flutter wave", ClassOther},
	"[":  {"[", "Start of ventricular flutter/fibrillation", ClassOther},
	"]":  {"]", "End of ventricular flutter/fibrillation", ClassOther},
	"\"": {"\"", "Comment annotation", ClassOther},
}

// Lookup returns the catalogue entry for a symbol. Unknown symbols, including
// the empty string, come back as ClassOther with an empty description.
func Lookup(symbol string) (SymbolInfo, bool) {
	info, ok := catalogue[symbol]
	if !ok {
		return SymbolInfo{Symbol: symbol, Class: ClassOther}, false
	}
	return info, true
}

// Describe returns a human label for a symbol
func Describe(symbol string) string {
	if symbol == "" {
		return "(empty)"
	}
	if info, ok := Lookup(symbol); ok {
		return info.Description
	}
	return "Unknown code"
}

// ClassOf returns the AAMI class of a symbol
func ClassOf(symbol string) Class {
	info, _ := Lookup(symbol)
	return info.Class
}

// IsBeat reports whether the symbol marks a heartbeat rather than a rhythm or
// quality note
func IsBeat(symbol string) bool {
	return ClassOf(symbol) != ClassOther
}
