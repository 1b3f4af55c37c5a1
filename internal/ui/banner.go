package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
)

const bannerText = `
   _       _     _                                _
  (_) ___ | |__ | |__   __ _ _ ____   _____  ___| |_
  | |/ _ \| '_ \| '_ \ / _' | '__\ \ / / _ \/ __| __|
  | | (_) | |_) | | | | (_| | |   \ V /  __/\__ \ |_
 _/ |\___/|_.__/|_| |_|\__,_|_|    \_/ \___||___/\__|
|__/
`

// ColorizeText fades the input text between two random colors
func ColorizeText(text string) string {
	random := rand.New(rand.NewSource(time.Now().UnixNano()))

	startColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))
	endColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))

	chars := strings.Split(text, "")
	steps := float32(len(chars))

	var b strings.Builder
	for i, ch := range chars {
		b.WriteString(startColor.Fade(0, steps, float32(i), endColor).Sprint(ch))
	}
	return b.String()
}

// PrintBanner displays the application banner
func PrintBanner(silence bool) {
	if !silence {
		fmt.Println(ColorizeText(bannerText))
	}
}

// Summary describes a finished crawl for the operator
type Summary struct {
	Keyword    string
	Country    string
	Database   string
	StopReason string
	Pages      int
	Added      int
	Total      int
	// FileSize of the persisted database in bytes
	FileSize uint64
}

// RenderSummary returns the summary as a table
func RenderSummary(s Summary) (string, error) {
	data := pterm.TableData{
		{"Search", fmt.Sprintf("%s in %s", s.Keyword, s.Country)},
		{"Pages crawled", humanize.Comma(int64(s.Pages))},
		{"New jobs", ColorizeCount(s.Added)},
		{"Jobs in database", humanize.Comma(int64(s.Total))},
		{"Stopped", s.StopReason},
		{"Database", fmt.Sprintf("%s (%s)", s.Database, humanize.Bytes(s.FileSize))},
	}
	return pterm.DefaultTable.WithData(data).Srender()
}

// PrintSummary writes the summary table to stdout
func PrintSummary(s Summary) error {
	out, err := RenderSummary(s)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// ColorizeCount highlights how many new jobs a crawl found
func ColorizeCount(n int) string {
	formatted := humanize.Comma(int64(n))
	if n == 0 {
		return pterm.Yellow(formatted)
	}
	return pterm.Green(formatted)
}
