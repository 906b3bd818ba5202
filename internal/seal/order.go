package seal

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// NoNumber is the numeric token of names without digits.
const NoNumber = 999999

var numericPattern = regexp.MustCompile(`(\d+)(?:/(\d+))?`)

// NumericToken extracts the first integer of name; "8/4" yields 8.004.
func NumericToken(name string) float64 {
	m := numericPattern.FindStringSubmatch(name)
	if m == nil {
		return NoNumber
	}
	// digit runs past the int64 range still parse, as large floats
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return NoNumber
	}
	if m[2] != "" {
		if second, err := strconv.ParseFloat(m[2], 64); err == nil {
			v += second / 1000
		}
	}
	return v
}

// SuffixPriority ranks the text after the last "_": S, W, G then the rest.
func SuffixPriority(name string) int {
	i := strings.LastIndex(name, "_")
	if i < 0 {
		return 99
	}
	switch strings.ToUpper(strings.TrimSpace(name[i+1:])) {
	case "S":
		return 0
	case "W":
		return 1
	case "G":
		return 2
	}
	return 99
}

type sortKey struct {
	group   int
	sub     int
	order   int
	numeric float64
	lower   string
}

func keyOf(d Descriptor) sortKey {
	k := sortKey{numeric: NumericToken(d.Name), lower: strings.ToLower(d.Name)}
	if !d.AlwaysShow {
		k.group = 1
		k.sub = SuffixPriority(d.Name)
		return k
	}
	if d.Order != nil {
		k.order = *d.Order
		return k
	}
	k.sub = 1
	return k
}

// Less orders always-show seals first (manual order, then by number and
// name) and the others by suffix, number and name.
func Less(a, b Descriptor) bool {
	ka, kb := keyOf(a), keyOf(b)
	if ka.group != kb.group {
		return ka.group < kb.group
	}
	if ka.sub != kb.sub {
		return ka.sub < kb.sub
	}
	if ka.group == 0 && ka.sub == 0 {
		return ka.order < kb.order
	}
	if ka.numeric != kb.numeric {
		return ka.numeric < kb.numeric
	}
	return ka.lower < kb.lower
}

// Sort returns a sorted copy of list. Full ties keep their input order.
func Sort(list []Descriptor) []Descriptor {
	out := append([]Descriptor(nil), list...)
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// Source is the part of a table the planner needs.
type Source interface {
	DataColumnBlank(name string) bool
}

// Plan returns the sorted seals to render for src. Reserved names are
// dropped, as are non-always-show seals without any value in the data rows.
func Plan(list []Descriptor, src Source) []Descriptor {
	keep := make([]Descriptor, 0, len(list))
	for _, d := range list {
		if IsReserved(d.Name) {
			continue
		}
		if !d.AlwaysShow && src.DataColumnBlank(d.Name) {
			continue
		}
		keep = append(keep, d)
	}
	return Sort(keep)
}
