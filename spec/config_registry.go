package spec

import (
	"encoding/json"

	"github.com/zintix-labs/puzzlelab/errs"
	"gopkg.in/yaml.v3"
)

// GetPackSettingByYAML
// 會讀取 YAML 設定、初始化各子設定並執行基本檢查後回傳。
func GetPackSettingByYAML(data []byte) (*PackSetting, error) {
	pk := &PackSetting{}
	if err := yaml.Unmarshal(data, pk); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := pk.init(); err != nil {
		return nil, errs.Wrap(err, "pack setting initialized err")
	}

	return pk, nil
}

// GetPackSettingByJSON
// 會讀取 Json 設定、初始化各子設定並執行基本檢查後回傳
func GetPackSettingByJSON(data []byte) (*PackSetting, error) {
	pk := &PackSetting{}
	if err := json.Unmarshal(data, pk); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := pk.init(); err != nil {
		return nil, errs.Wrap(err, "pack setting initialized err")
	}

	return pk, nil
}

// GetPuzzleSettingByYAML 解析單一 puzzle 設定（不含 pack 包裝）。
func GetPuzzleSettingByYAML(data []byte) (*PuzzleSetting, error) {
	ps := &PuzzleSetting{}
	if err := yaml.Unmarshal(data, ps); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}
	if err := ps.Init(); err != nil {
		return nil, errs.Wrap(err, "puzzle setting initialized err")
	}
	return ps, nil
}

// GetPuzzleSettingByJSON 解析單一 puzzle 設定（不含 pack 包裝）。
func GetPuzzleSettingByJSON(data []byte) (*PuzzleSetting, error) {
	ps := &PuzzleSetting{}
	if err := json.Unmarshal(data, ps); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}
	if err := ps.Init(); err != nil {
		return nil, errs.Wrap(err, "puzzle setting initialized err")
	}
	return ps, nil
}
