package probe

import (
	"fmt"
	"strings"
)

// problematicCodecs are the codecs known to trip up the silence cutter.
// Anything else is left alone unless the frame rate is variable.
var problematicCodecs = map[string]struct{}{
	"av1":        {},
	"mpeg2video": {},
	"mpeg1video": {},
	"wmv3":       {},
	"theora":     {},
}

// PreprocessReasons lists why the file would benefit from a preprocessing
// pass before cutting. An empty slice means the file looks compatible.
func (v VideoInfo) PreprocessReasons() []string {
	var reasons []string
	if v.VariableFrameRate {
		reasons = append(reasons, "variable frame rate detected (common in phone recordings)")
	}
	if _, ok := problematicCodecs[strings.ToLower(v.Codec)]; ok {
		reasons = append(reasons, fmt.Sprintf("codec %q may cause compatibility issues", v.Codec))
	}
	return reasons
}
