package ahp

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxStep bounds a judgment on either side of "equal".
const MaxStep = 8

// Step is a pairwise judgment on the symmetric -8..8 slider scale.
// Decoding from JSON or YAML never fails: null, missing, non-numeric or
// non-finite input becomes 0 (equal) so a bad judgment cannot poison a
// matrix.
type Step int

// UnmarshalJSON implements json.Unmarshaler.
func (s *Step) UnmarshalJSON(data []byte) error {
	*s = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		data = []byte(str)
	}
	*s = parseStep(string(data))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	*s = 0
	if node.Kind == yaml.ScalarNode {
		*s = parseStep(node.Value)
	}
	return nil
}

// parseStep rounds and clamps a textual judgment. Clamping happens before
// the integer conversion so huge magnitudes keep their sign.
func parseStep(raw string) Step {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Max(-MaxStep, math.Min(MaxStep, math.Round(f)))
	return Step(int(f))
}

func clampStep(v int) Step {
	switch {
	case v > MaxStep:
		return MaxStep
	case v < -MaxStep:
		return -MaxStep
	}
	return Step(v)
}

// ScaleToValue converts a slider step into the classical Saaty scalar:
// 0 -> 1, positive k -> k+1, negative k -> 1/(|k|+1).
func ScaleToValue(step Step) float64 {
	s := int(clampStep(int(step)))
	switch {
	case s == 0:
		return 1
	case s > 0:
		return float64(s + 1)
	default:
		return 1 / float64(-s+1)
	}
}
