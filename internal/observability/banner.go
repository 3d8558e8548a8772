package observability

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	colorReset    = "\033[0m"
	colorNeonCyan = "\033[96m"
)

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return w
}

// PrintBanner prints the startup banner, centered to the terminal width.
func PrintBanner() {
	banner := `
    ____  ____  ________________________  _____    ____  ____
   / __ \/ __ \/  _/ ____/ ____/ ____/ / / /   |  / __ \/ __ \
  / /_/ / /_/ // // /   / __/ / / __/ / / / /| | / /_/ / / / /
 / ____/ _, _// // /___/ /___/ /_/ / /_/ / ___ |/ _, _/ /_/ /
/_/   /_/ |_/___/\____/_____/\____/\____/_/  |_/_/ |_/_____/

        >> RETAIL PRICE COMPARISON AGENT <<
`

	width := termWidth()
	for _, l := range strings.Split(banner, "\n") {
		padding := (width - len(l)) / 2
		if padding < 0 {
			padding = 0
		}
		fmt.Printf("%s%s%s\n", strings.Repeat(" ", padding), colorNeonCyan+l, colorReset)
	}
}
