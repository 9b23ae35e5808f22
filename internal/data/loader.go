package data

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// fixtureSet is the on-disk shape of one of the species/moves/abilities/
// items/natures/types YAML fixtures under a data directory.
type fixtureSet struct {
	Species   []SpeciesData        `yaml:"species"`
	Moves     []moveFixture         `yaml:"moves"`
	Abilities []AbilityData         `yaml:"abilities"`
	Items     []ItemData            `yaml:"items"`
	Natures   []NatureData          `yaml:"natures"`
	TypeChart []typeChartRowFixture `yaml:"typeChart"`
}

// moveFixture mirrors MoveData but with string enum spellings, the way a
// human-authored YAML fixture would naturally be written.
type moveFixture struct {
	ID        int      `yaml:"id"`
	Name      string   `yaml:"name"`
	Type      int      `yaml:"type"`
	Category  string   `yaml:"category"`
	BasePower int      `yaml:"basePower"`
	Accuracy  int      `yaml:"accuracy"`
	PP        int      `yaml:"pp"`
	Priority  int      `yaml:"priority"`
	Target    string   `yaml:"target"`
	Flags     []string `yaml:"flags"`

	Effect        string `yaml:"effect"`
	EffectStat    string `yaml:"effectStat"`
	EffectStages  int    `yaml:"effectStages"`
	EffectChance  int    `yaml:"effectChance"`
	RecoilPercent int    `yaml:"recoilPercent"`
}

type typeChartRowFixture struct {
	AttackType int       `yaml:"attackType"`
	Multipliers []float64 `yaml:"multipliers"`
}

var categoryNames = map[string]Category{
	"status":  CategoryStatus,
	"physical": CategoryPhysical,
	"special": CategorySpecial,
}

var targetNames = map[string]TargetKind{
	"normal":        TargetNormal,
	"adjacentFoe":   TargetAdjacentFoe,
	"any":           TargetAny,
	"self":          TargetSelf,
	"allAdjacent":   TargetAllAdjacent,
	"allFoes":       TargetAllFoes,
	"allies":        TargetAllies,
	"allAdjacentFoes": TargetAllAdjacentFoes,
	"all":           TargetAll,
	"randomFoe":     TargetRandomFoe,
}

var flagNames = map[string]MoveFlags{
	"contact":    FlagContact,
	"sound":      FlagSound,
	"punch":      FlagPunch,
	"bite":       FlagBite,
	"ballistic":  FlagBallistic,
	"protectable": FlagProtectable,
	"spread":     FlagSpread,
}

var effectNames = map[string]MoveEffectKind{
	"":              MoveEffectKindNone,
	"statBoostSelf": MoveEffectKindStatBoostSelf,
	"statLowerTarget": MoveEffectKindStatLowerTarget,
	"tailwind":      MoveEffectKindTailwind,
	"reflect":       MoveEffectKindReflect,
	"lightScreen":   MoveEffectKindLightScreen,
	"auroraVeil":    MoveEffectKindAuroraVeil,
	"trickRoom":     MoveEffectKindTrickRoom,
	"recoil":        MoveEffectKindRecoil,
	"burn":          MoveEffectKindBurn,
	"paralyze":      MoveEffectKindParalyze,
	"poison":        MoveEffectKindPoison,
	"flinch":        MoveEffectKindFlinch,
	"heal":          MoveEffectKindHeal,
}

var effectStatNames = map[string]int{
	"":    -1,
	"atk": 0,
	"def": 1,
	"spa": 2,
	"spd": 3,
	"spe": 4,
}

// LoadFrom reads species.yaml, moves.yaml, abilities.yaml, items.yaml,
// natures.yaml, and typechart.yaml from dir (any subset may be absent) and
// returns a populated *GameData. Each file is read through viper (for
// path/format flexibility, matching reinforcement.FromYaml in the
// teacher) and then decoded a second time via yaml.v3 into the typed
// fixture structs, since viper's own Unmarshal loses precision on nested
// slices of structs with unexported-looking tag names.
func LoadFrom(dir string) (*GameData, error) {
	gd := NewGameData()

	for _, name := range []string{"species", "moves", "abilities", "items", "natures", "typechart"} {
		path := filepath.Join(dir, name+".yaml")
		vp := viper.New()
		vp.SetConfigFile(path)
		vp.SetConfigType("yaml")
		if err := vp.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); notFound || errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("data: reading %s: %w", path, err)
		}

		raw, err := yaml.Marshal(vp.AllSettings())
		if err != nil {
			return nil, fmt.Errorf("data: re-marshaling %s: %w", path, err)
		}

		var fs fixtureSet
		if err := yaml.Unmarshal(raw, &fs); err != nil {
			return nil, fmt.Errorf("data: decoding %s: %w", path, err)
		}

		if err := mergeFixtures(gd, fs); err != nil {
			return nil, fmt.Errorf("data: %s: %w", path, err)
		}
	}

	return gd, nil
}

func mergeFixtures(gd *GameData, fs fixtureSet) error {
	for _, s := range fs.Species {
		if s.Type2 == 0 {
			// A zero-value Type2 from YAML omission means "no second type";
			// the wire convention for that is -1, not 0 (0 is a real type id).
			s.Type2 = -1
		}
		gd.Species[s.ID] = s
	}
	for _, m := range fs.Moves {
		cat, ok := categoryNames[m.Category]
		if !ok {
			return fmt.Errorf("unknown move category %q for move %d", m.Category, m.ID)
		}
		tgt, ok := targetNames[m.Target]
		if !ok {
			return fmt.Errorf("unknown move target %q for move %d", m.Target, m.ID)
		}
		var flags MoveFlags
		for _, f := range m.Flags {
			bit, ok := flagNames[f]
			if !ok {
				return fmt.Errorf("unknown move flag %q for move %d", f, m.ID)
			}
			flags |= bit
		}
		effect, ok := effectNames[m.Effect]
		if !ok {
			return fmt.Errorf("unknown move effect %q for move %d", m.Effect, m.ID)
		}
		effectStat, ok := effectStatNames[m.EffectStat]
		if !ok {
			return fmt.Errorf("unknown move effect stat %q for move %d", m.EffectStat, m.ID)
		}
		gd.Moves[m.ID] = MoveData{
			ID: m.ID, Name: m.Name, Type: m.Type, Category: cat,
			BasePower: m.BasePower, Accuracy: m.Accuracy, PP: m.PP,
			Priority: m.Priority, Target: tgt, Flags: flags,
			Effect: effect, EffectStat: effectStat, EffectStages: m.EffectStages,
			EffectChance: m.EffectChance, RecoilPercent: m.RecoilPercent,
		}
	}
	for _, a := range fs.Abilities {
		gd.Abilities[a.ID] = a
	}
	for _, it := range fs.Items {
		gd.Items[it.ID] = it
	}
	for _, n := range fs.Natures {
		gd.Natures[n.ID] = n
	}
	for _, row := range fs.TypeChart {
		if row.AttackType >= 0 && row.AttackType < len(gd.Types) {
			copy(gd.Types[row.AttackType], row.Multipliers)
		}
	}
	return nil
}
