package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/swisspair/pkg/pipeline"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

// Palette
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBye      = lipgloss.NewStyle().Foreground(colorYellow)
	styleBorder   = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printRoundStats prints a one-line summary of a generated round.
func printRoundStats(res *pipeline.Result) {
	parts := []string{
		fmt.Sprintf("%d players", res.Stats.Players),
		fmt.Sprintf("%d games", res.Stats.Games),
	}
	if res.Stats.Byes > 0 {
		parts = append(parts, fmt.Sprintf("%d bye", res.Stats.Byes))
	}
	if len(res.Brackets) > 0 {
		parts = append(parts, fmt.Sprintf("%d brackets", len(res.Brackets)))
	}

	status := styleComputed.Render("fresh")
	if res.CacheHit {
		status = styleCached.Render("cached")
	}

	for i := range parts {
		parts[i] = StyleDim.Render(parts[i])
	}
	fmt.Println("  " + strings.Join(append(parts, status), StyleDim.Render(" · ")))
}

// formatScore renders 2.5 as "2.5" and 3 as "3".
func formatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// playerLabel returns "GM Carlsen (2830)" style labels, or the bare ID for
// unknown players.
func playerLabel(players map[string]tournament.Player, id string) string {
	p, ok := players[id]
	if !ok {
		return id
	}
	name := cmp.Or(p.Nickname, p.ID)
	if p.Title != "" {
		name = p.Title + " " + name
	}
	return fmt.Sprintf("%s (%s)", name, formatScore(p.Rating))
}

func playerIndex(players []tournament.Player) map[string]tournament.Player {
	idx := make(map[string]tournament.Player, len(players))
	for _, p := range players {
		idx[p.ID] = p
	}
	return idx
}

// gamesTable renders a round as a bordered table: board, white, black and
// result.
func gamesTable(games []tournament.Game, players []tournament.Player) string {
	idx := playerIndex(players)
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		black := playerLabel(idx, g.BlackID)
		if g.IsBye() {
			black = "bye"
		}
		rows = append(rows, []string{strconv.Itoa(g.Number), playerLabel(idx, g.WhiteID), black, g.Result.String()})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Board", "White", "Black", "Result").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if row < len(games) && games[row].IsBye() && col == 2 {
				return base.Inherit(styleBye)
			}
			return base
		}).
		Render()
}

// standingsTable renders players ordered by score, then rating, then
// pairing number.
func standingsTable(players []tournament.Player) string {
	ranked := slices.Clone(players)
	slices.SortStableFunc(ranked, func(a, b tournament.Player) int {
		return cmp.Or(
			cmp.Compare(b.Score(), a.Score()),
			cmp.Compare(b.Rating, a.Rating),
			cmp.Compare(a.PairingNumber, b.PairingNumber),
		)
	})
	rows := make([][]string, 0, len(ranked))
	for i, p := range ranked {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			cmp.Or(p.Nickname, p.ID),
			formatScore(p.Rating),
			formatScore(p.Score()),
			fmt.Sprintf("%d/%d/%d", p.Wins, p.Draws, p.Losses),
			fmt.Sprintf("%+d", p.ColourIndex),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("#", "Player", "Rating", "Score", "W/D/L", "Colour").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

// scheduleTable renders a round-robin schedule with one row per round.
// Slot numbers are 1-based for display.
func scheduleTable(rounds [][][2]int) string {
	rows := make([][]string, 0, len(rounds))
	for i, pairs := range rounds {
		cells := make([]string, 0, len(pairs))
		for _, p := range pairs {
			cells = append(cells, fmt.Sprintf("%d-%d", p[0]+1, p[1]+1))
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), strings.Join(cells, "  ")})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Round", "Pairings (white-black)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}
