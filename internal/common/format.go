package common

import (
	"fmt"
	"strings"
)

const DefaultWidth = 78

func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

func PrintHeader(title string, width int) {
	PrintSeparator("=", width)
	fmt.Println(title)
	PrintSeparator("=", width)
}

func PrintFooter(summary string, width int) {
	fmt.Println()
	PrintSeparator("=", width)
	fmt.Println(summary)
	PrintSeparator("=", width)
}

// BoxPrefix returns the tree-drawing prefix for a list row.
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└─"
	}
	return "├─"
}
