package render

import (
	"fmt"
	"strings"
	"unicode"

	"hellabot/internal/api"
	"hellabot/internal/command"
	"hellabot/internal/gamedata"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
)

// CC stage pages.
const (
	PageEnemies = iota
	PagePreview
	PageDiagram
	pageCount
)

const ccCommand = "cc"

// StageSubcommand is the token field that routes cc continuations to the
// stage flow.
const StageSubcommand = "stage"

var pageNames = [pageCount]string{"Enemies", "Preview", "Diagram"}

// StageKey is the lookup key a stage is re-fetched by.
func StageKey(doc *api.Document[api.CCStage]) string {
	if len(doc.Keys) > 0 && doc.Keys[0] != "" {
		return doc.Keys[0]
	}
	return strings.ToLower(doc.Data.Const.Name)
}

// levelLeaf is the last segment of a level id such as
// "obt/rune/level_rune_03-04".
func levelLeaf(levelID string) string {
	if i := strings.LastIndex(levelID, "/"); i >= 0 {
		return levelID[i+1:]
	}
	return levelID
}

// StageMessage renders one page of a CC stage with page buttons.
func StageMessage(doc *api.Document[api.CCStage], page int, assetBase string) (*discordgo.InteractionResponseData, error) {
	st := doc.Data.Const
	page = Clamp(page, pageCount)
	key := StageKey(doc)

	desc := st.Description
	if st.Location != "" {
		desc = fmt.Sprintf("**%s**\n%s", st.Location, desc)
	}
	e := embed.NewEmbed().
		SetColor(EmbedColor).
		SetTitle(st.Name).
		SetDescription(clip(orDash(desc), maxDescription)).
		SetFooter(fmt.Sprintf("%s · %s", pageNames[page], levelLeaf(st.LevelID)))

	switch page {
	case PageEnemies:
		e = e.AddField("Enemies", enemyList(doc.Data.Levels.Enemies))
	case PagePreview:
		e = e.SetImage(assetURL(assetBase, "stage/previews", levelLeaf(st.LevelID)))
	case PageDiagram:
		e = e.SetImage(assetURL(assetBase, "stage/diagrams", levelLeaf(st.LevelID)))
	}

	tabs := make([]Tab, pageCount)
	for p := range tabs {
		tabs[p] = Tab{Label: pageNames[p], Fields: []any{StageSubcommand, key, p}, Active: p == page}
	}
	row, err := Buttons(ccCommand, tabs)
	if err != nil {
		return nil, err
	}
	return message(e.MessageEmbed, row), nil
}

func enemyList(enemies []api.StageEnemy) string {
	if len(enemies) == 0 {
		return "No enemy data."
	}
	var b strings.Builder
	for _, en := range enemies {
		name := en.Name
		if name == "" {
			name = en.Key
		}
		b.WriteString(name)
		if en.Count > 0 {
			fmt.Fprintf(&b, " ×%d", en.Count)
		}
		if en.Level > 0 {
			fmt.Fprintf(&b, " (Lv %d)", en.Level)
		}
		b.WriteString("\n")
	}
	return clip(strings.TrimSuffix(b.String(), "\n"), maxFieldValue)
}

func assetURL(base, dir, leaf string) string {
	return strings.TrimRight(base, "/") + "/" + dir + "/" + leaf + ".png"
}

// SeasonTitle is the display name of a season.
func SeasonTitle(s gamedata.Season) string {
	if s.Index == "beta" {
		return "CC Beta: " + s.Name
	}
	return fmt.Sprintf("CC#%s: %s", s.Index, s.Name)
}

// SeasonMessage lists a season's stages with a select menu that opens one.
func SeasonMessage(s gamedata.Season) (*discordgo.InteractionResponseData, error) {
	lines := make([]string, len(s.Stages))
	tabs := make([]Tab, len(s.Stages))
	for i, stage := range s.Stages {
		lines[i] = "• " + TitleCase(stage)
		tabs[i] = Tab{Label: TitleCase(stage), Fields: []any{stage}}
	}

	e := embed.NewEmbed().
		SetColor(EmbedColor).
		SetTitle(SeasonTitle(s)).
		SetDescription(orDash(strings.Join(lines, "\n")))

	row, err := Select("Select a stage", ccCommand, []any{StageSubcommand, command.TokenSelect, PageEnemies}, tabs)
	if err != nil {
		return nil, err
	}
	return message(e.MessageEmbed, row), nil
}

// TitleCase upper-cases the first letter of every word.
func TitleCase(s string) string {
	r := []rune(s)
	for i := range r {
		if i == 0 || unicode.IsSpace(r[i-1]) || r[i-1] == '-' {
			r[i] = unicode.ToUpper(r[i])
		}
	}
	return string(r)
}
