package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFromYaml(t *testing.T) {
	Convey("Given a missing config path", t, func() {
		Convey("FromYaml falls back to DefaultConfig instead of erroring", func() {
			cfg, err := FromYaml(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
			So(err, ShouldBeNil)
			So(cfg, ShouldResemble, DefaultConfig())
		})
	})

	Convey("Given a config file with an outer Kind/Def envelope", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		doc := `
kind: vgcsim
def:
  dataDir: ./myfixtures
  activeSlots: 2
  maxTurns: 500
  rewardMode: dense
  spectate:
    addr: ":9090"
    enabled: true
  hyperParams:
    - key: epsilon
      val: 0.3
`
		err := os.WriteFile(path, []byte(doc), 0o644)
		So(err, ShouldBeNil)

		Convey("FromYaml decodes the inner Def into a typed Config", func() {
			cfg, err := FromYaml(path)
			So(err, ShouldBeNil)
			So(cfg.DataDir, ShouldEqual, "./myfixtures")
			So(cfg.ActiveSlots, ShouldEqual, 2)
			So(cfg.MaxTurns, ShouldEqual, 500)
			So(cfg.RewardMode, ShouldEqual, "dense")
			So(cfg.Spectate.Enabled, ShouldBeTrue)
			So(cfg.Spectate.Addr, ShouldEqual, ":9090")
			So(cfg.GetHyperParamOrDefault("epsilon", 0), ShouldEqual, 0.3)
			So(cfg.GetHyperParamOrDefault("gamma", 0.99), ShouldEqual, 0.99)
		})
	})
}

func TestGetHyperParamOrDefault(t *testing.T) {
	Convey("Given a Config with no matching hyperparameter", t, func() {
		cfg := &Config{}
		Convey("GetHyperParamOrDefault returns the fallback", func() {
			So(cfg.GetHyperParamOrDefault("missing", 1.5), ShouldEqual, 1.5)
		})
	})
}
