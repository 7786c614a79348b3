package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swisspair/pkg/io"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

// viewCommand creates the interactive round browser.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <snapshot.json> [round.json...]",
		Short: "Browse the rounds and standings of a tournament",
		Long: `Browse a tournament interactively.

Rounds recorded in the snapshot are shown alongside any round files written
by "swisspair pair -o". Use ←/→ to move between rounds and tab to switch to
the standings.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := io.ImportSnapshot(args[0])
			if err != nil {
				return err
			}
			games := slices.Clone(snap.Games)
			for _, path := range args[1:] {
				rd, err := io.ImportRound(path)
				if err != nil {
					return err
				}
				games = append(games, rd.Games...)
			}

			m := newRoundViewModel(snap.TournamentID, snap.Players, games)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithOutput(cmd.OutOrStdout())).Run()
			return err
		},
	}
}

// roundViewModel is the bubbletea model behind the view command.
type roundViewModel struct {
	Title     string
	Players   []tournament.Player
	Rounds    []roundGames
	Cursor    int
	Standings bool
}

type roundGames struct {
	Number int
	Games  []tournament.Game
}

// newRoundViewModel groups games by round, later rounds last, and starts on
// the latest round. A round given twice keeps its last copy.
func newRoundViewModel(title string, players []tournament.Player, games []tournament.Game) roundViewModel {
	byRound := make(map[int][]tournament.Game)
	for _, g := range games {
		byRound[g.Round] = append(byRound[g.Round], g)
	}

	m := roundViewModel{Title: cmp.Or(title, "Tournament"), Players: players}
	for n, gs := range byRound {
		// Deduplicate by board so re-imported rounds replace the snapshot's copy.
		boards := make(map[int]tournament.Game, len(gs))
		for _, g := range gs {
			boards[g.Number] = g
		}
		gs = gs[:0]
		for _, g := range boards {
			gs = append(gs, g)
		}
		slices.SortFunc(gs, func(a, b tournament.Game) int { return cmp.Compare(a.Number, b.Number) })
		m.Rounds = append(m.Rounds, roundGames{Number: n, Games: gs})
	}
	slices.SortFunc(m.Rounds, func(a, b roundGames) int { return cmp.Compare(a.Number, b.Number) })
	m.Cursor = max(len(m.Rounds)-1, 0)
	return m
}

func (m roundViewModel) Init() tea.Cmd {
	return nil
}

func (m roundViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "right", "l":
		if m.Cursor < len(m.Rounds)-1 {
			m.Cursor++
		}
	case "home":
		m.Cursor = 0
	case "end":
		m.Cursor = max(len(m.Rounds)-1, 0)
	case "tab", "s":
		m.Standings = !m.Standings
	}
	return m, nil
}

func (m roundViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ round  tab standings  q quit"))
	b.WriteString("\n\n")

	switch {
	case m.Standings:
		b.WriteString(StyleValue.Render("Standings"))
		b.WriteString("\n")
		b.WriteString(standingsTable(m.Players))
	case len(m.Rounds) == 0:
		b.WriteString(StyleDim.Render("No rounds played yet."))
	default:
		rd := m.Rounds[m.Cursor]
		b.WriteString(StyleValue.Render(fmt.Sprintf("Round %d", rd.Number)))
		b.WriteString("\n")
		b.WriteString(gamesTable(rd.Games, m.Players))
		b.WriteString("\n\n")
		b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rounds))))
	}
	b.WriteString("\n")
	return b.String()
}
