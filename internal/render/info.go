package render

import (
	"fmt"
	"strings"

	"hellabot/internal/api"
	"hellabot/internal/command"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
)

// Info views.
const (
	ViewStats = iota
	ViewSkills
	ViewTalents
	viewCount
)

const infoCommand = "info"

var viewNames = [viewCount]string{"Stats", "Skills", "Talents"}

// InfoState is the position inside an operator's info pages. In the stats
// view Level is the elite phase and Extras[0], when present, the level
// keyframe inside it (default: the last one).
type InfoState struct {
	View   int
	Level  int
	Extras []int
}

// Normalize clamps the view and level into range for op.
func (s InfoState) Normalize(op api.Operator) InfoState {
	s.View = Clamp(s.View, viewCount)
	switch s.View {
	case ViewStats:
		s.Level = Clamp(s.Level, len(op.Phases))
	case ViewSkills:
		s.Level = Clamp(s.Level, maxSkillLevels(op))
	default:
		s.Level = 0
	}
	return s
}

// InfoMessage renders one view of an operator with its navigation controls.
func InfoMessage(doc *api.Document[api.Operator], st InfoState, emojis Emojis) (*discordgo.InteractionResponseData, error) {
	op := doc.Data
	st = st.Normalize(op)

	e := embed.NewEmbed().
		SetColor(EmbedColor).
		SetTitle(fmt.Sprintf("%s %s", op.Name, strings.Repeat("★", op.Stars()))).
		SetDescription(clip(infoHeader(doc.ID, op, emojis), maxDescription))

	var (
		controls []discordgo.ActionsRow
		err      error
	)
	switch st.View {
	case ViewStats:
		e, controls, err = statsView(e, doc.ID, op, st.Level, keyFrame(op.Phases[st.Level], st.Extras))
	case ViewSkills:
		var row discordgo.ActionsRow
		e, row, err = skillsView(e, doc.ID, op, st.Level)
		controls = []discordgo.ActionsRow{row}
	case ViewTalents:
		e = talentsView(e, op)
	}
	if err != nil {
		return nil, err
	}
	e.SetFooter(fmt.Sprintf("%s · %s", viewNames[st.View], doc.ID))

	tabs := make([]Tab, viewCount)
	for v := range tabs {
		tabs[v] = Tab{Label: viewNames[v], Fields: []any{v}, Active: v == st.View}
	}
	views, err := Select("Select a view", infoCommand, []any{doc.ID, command.TokenSelect, 0}, tabs)
	if err != nil {
		return nil, err
	}
	return message(e.MessageEmbed, append(controls, views)...), nil
}

func infoHeader(id string, op api.Operator, emojis Emojis) string {
	var b strings.Builder
	if em := emojis.Operator(id); em != "" {
		b.WriteString(em + " ")
	}
	fmt.Fprintf(&b, "**%s**", professionName(op.Profession))
	if op.SubProfession != "" {
		fmt.Fprintf(&b, " · %s", op.SubProfession)
	}
	if op.Position != "" {
		fmt.Fprintf(&b, " · %s", strings.ToLower(op.Position))
	}
	if op.ItemUsage != "" {
		b.WriteString("\n*" + op.ItemUsage + "*")
	}
	if op.Description != "" {
		b.WriteString("\n\n" + op.Description)
	}
	return b.String()
}

func professionName(p string) string {
	switch p {
	case "PIONEER":
		return "Vanguard"
	case "WARRIOR":
		return "Guard"
	case "TANK":
		return "Defender"
	case "SNIPER":
		return "Sniper"
	case "CASTER":
		return "Caster"
	case "MEDIC":
		return "Medic"
	case "SUPPORT":
		return "Supporter"
	case "SPECIAL":
		return "Specialist"
	}
	return p
}

func keyFrame(p api.OperatorPhase, extras []int) int {
	if len(extras) == 0 {
		return len(p.KeyFrames) - 1
	}
	return Clamp(extras[0], len(p.KeyFrames))
}

func statsView(e *embed.Embed, id string, op api.Operator, phase, frame int) (*embed.Embed, []discordgo.ActionsRow, error) {
	p := op.Phases[phase]
	if len(p.KeyFrames) > 0 {
		f := p.KeyFrames[frame]
		a := f.Data
		e = e.AddField("Elite "+fmt.Sprint(phase), fmt.Sprintf("Level %d", f.Level)).
			AddField("❤️ HP", fmt.Sprint(a.MaxHP)).
			AddField("⚔️ ATK", fmt.Sprint(a.Atk)).
			AddField("🛡️ DEF", fmt.Sprint(a.Def)).
			AddField("✨ RES", fmt.Sprint(a.MagicResist)).
			AddField("🏁 DP Cost", fmt.Sprint(a.Cost)).
			AddField("✋ Block", fmt.Sprint(a.BlockCnt)).
			AddField("⏱️ Atk Interval", fmt.Sprintf("%.2fs", a.BaseAttackTime)).
			AddField("⌛ Redeploy", fmt.Sprintf("%ds", a.RespawnTime))
		inline(e)
	}

	tabs := make([]Tab, len(op.Phases))
	for i := range op.Phases {
		tabs[i] = Tab{Label: fmt.Sprintf("Elite %d", i), Fields: []any{id, ViewStats, i}, Active: i == phase}
	}
	phases, err := Buttons(infoCommand, tabs)
	if err != nil {
		return e, nil, err
	}
	if len(p.KeyFrames) < 2 {
		return e, []discordgo.ActionsRow{phases}, nil
	}

	tabs = make([]Tab, len(p.KeyFrames))
	for i, f := range p.KeyFrames {
		tabs[i] = Tab{Label: fmt.Sprintf("Level %d", f.Level), Fields: []any{id, ViewStats, phase, i}, Active: i == frame}
	}
	levels, err := Buttons(infoCommand, tabs)
	return e, []discordgo.ActionsRow{phases, levels}, err
}

func maxSkillLevels(op api.Operator) int {
	n := 0
	for _, s := range op.Skills {
		n = max(n, len(s.Levels))
	}
	return n
}

func skillLevelName(i int) string {
	if i < 7 {
		return fmt.Sprintf("Level %d", i+1)
	}
	return fmt.Sprintf("Mastery %d", i-6)
}

func skillsView(e *embed.Embed, id string, op api.Operator, level int) (*embed.Embed, discordgo.ActionsRow, error) {
	if len(op.Skills) == 0 {
		return e.AddField("Skills", "This operator has no skills."), discordgo.ActionsRow{}, nil
	}
	for i, s := range op.Skills {
		if len(s.Levels) == 0 {
			continue
		}
		l := s.Levels[Clamp(level, len(s.Levels))]
		value := fmt.Sprintf("SP cost %d · initial SP %d", l.SPCost, l.InitSP)
		if l.Duration > 0 {
			value += fmt.Sprintf(" · %gs", l.Duration)
		}
		value = clip(value+"\n"+l.Description, maxFieldValue)
		e = e.AddField(fmt.Sprintf("S%d: %s (%s)", i+1, s.Name, skillLevelName(level)), value)
	}

	tabs := make([]Tab, maxSkillLevels(op))
	for i := range tabs {
		tabs[i] = Tab{Label: skillLevelName(i), Fields: []any{i}, Active: i == level}
	}
	row, err := Select("Select a skill level", infoCommand, []any{id, ViewSkills, command.TokenSelect}, tabs)
	return e, row, err
}

func talentsView(e *embed.Embed, op api.Operator) *embed.Embed {
	if len(op.Talents) == 0 {
		return e.AddField("Talents", "This operator has no talents.")
	}
	for _, t := range op.Talents {
		e = e.AddField(t.Name, orDash(t.Description))
	}
	return e
}
