package recipe

import (
	"regexp"
	"strconv"
	"strings"
)

var quantityPattern = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)\s*(.*?)\s*$`)

// ParseQuantity splits a composite quantity such as "250 g" or "1,5 kg" into
// its number and unit. Input that does not start with a number yields
// (0, "", false).
func ParseQuantity(s string) (float64, string, bool) {
	m := quantityPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0, "", false
	}
	return n, m[2], true
}
