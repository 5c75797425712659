package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderFill renders how much of a demand is covered, e.g. [████░░] 2/3.
// Green when covered, yellow when partly covered, red when nothing is ready.
func RenderFill(ready, needed, width int) string {
	if width < 2 {
		width = 2
	}
	if needed <= 0 {
		return fmt.Sprintf("[%s] %d/%d", StyleDim.Render(strings.Repeat(emptyBlock, width)), ready, needed)
	}
	pct := float64(ready) / float64(needed)
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case ready == 0:
		style = StyleRed
	case ready < needed:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), ready, needed)
}
