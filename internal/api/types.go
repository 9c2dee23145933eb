package api

import "strings"

// Document is one record returned by HellaAPI.
type Document[T any] struct {
	ID   string   `json:"id"`
	Keys []string `json:"keys"`
	Data T        `json:"data"`
}

// Validator is implemented by record payloads that can check their own shape.
type Validator interface {
	IsValid() bool
}

// Valid reports whether doc holds a usable record.
func Valid[T Validator](doc *Document[T]) bool {
	return doc != nil && doc.ID != "" && doc.Data.IsValid()
}

// Operator is the subset of operator data the bot renders.
type Operator struct {
	Name          string           `json:"name"`
	Appellation   string           `json:"appellation"`
	Rarity        string           `json:"rarity"`
	Profession    string           `json:"profession"`
	SubProfession string           `json:"subProfessionId"`
	Position      string           `json:"position"`
	Description   string           `json:"description"`
	ItemUsage     string           `json:"itemUsage"`
	Phases        []OperatorPhase  `json:"phases"`
	Skills        []OperatorSkill  `json:"skills"`
	Talents       []OperatorTalent `json:"talents"`
}

func (o Operator) IsValid() bool {
	return o.Name != "" && len(o.Phases) > 0
}

// Stars converts the "TIER_n" rarity into a star count.
func (o Operator) Stars() int {
	n := strings.TrimPrefix(o.Rarity, "TIER_")
	if len(n) != 1 || n[0] < '1' || n[0] > '6' {
		return 0
	}
	return int(n[0] - '0')
}

// OperatorPhase is one elite phase with its level-bound stats.
type OperatorPhase struct {
	MaxLevel  int              `json:"maxLevel"`
	KeyFrames []AttributeFrame `json:"attributesKeyFrames"`
}

// AttributeFrame holds stats at a given level.
type AttributeFrame struct {
	Level int        `json:"level"`
	Data  Attributes `json:"data"`
}

// Attributes are the combat stats of an operator at one level.
type Attributes struct {
	MaxHP          int     `json:"maxHp"`
	Atk            int     `json:"atk"`
	Def            int     `json:"def"`
	MagicResist    float64 `json:"magicResistance"`
	Cost           int     `json:"cost"`
	BlockCnt       int     `json:"blockCnt"`
	BaseAttackTime float64 `json:"baseAttackTime"`
	RespawnTime    int     `json:"respawnTime"`
}

// OperatorSkill is one skill with its per-level descriptions.
type OperatorSkill struct {
	SkillID string       `json:"skillId"`
	Name    string       `json:"name"`
	Levels  []SkillLevel `json:"levels"`
}

// SkillLevel describes a skill at one rank (1-7, then M1-M3).
type SkillLevel struct {
	Description string  `json:"description"`
	SPCost      int     `json:"spCost"`
	InitSP      int     `json:"initSp"`
	Duration    float64 `json:"duration"`
}

// OperatorTalent is one talent with its unlock candidates.
type OperatorTalent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CCStage is a Contingency Contract stage.
type CCStage struct {
	Const  CCStageConst `json:"const"`
	Levels CCLevels     `json:"levels"`
}

func (s CCStage) IsValid() bool {
	return s.Const.Name != "" && s.Const.LevelID != ""
}

// CCStageConst is the static description of a CC stage.
type CCStageConst struct {
	Name        string `json:"name"`
	LevelID     string `json:"levelId"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// CCLevels carries the enemy roster of a stage.
type CCLevels struct {
	Enemies []StageEnemy `json:"enemies"`
}

// StageEnemy is one enemy entry in a stage's roster.
type StageEnemy struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Item is a game item; only material fields used for icons are kept.
type Item struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	IconID   string `json:"iconId"`
	ItemType string `json:"itemType"`
	SortID   int    `json:"sortId"`
}

func (i Item) IsValid() bool {
	return i.ItemID != ""
}

// IsToken reports whether the item is a stage token rather than a material.
func (i Item) IsToken() bool {
	return strings.Contains(i.Name, "Token") ||
		strings.Contains(i.ItemID, "token") ||
		strings.Contains(i.IconID, "token")
}
