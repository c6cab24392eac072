package score

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// SequenceReportRender 定義輸出行為
type SequenceReportRender interface {
	Write(w io.Writer, r *SequenceReport) error
}

// Json渲染
type JsonSequenceReportRender struct{}

func (jr *JsonSequenceReportRender) Write(w io.Writer, r *SequenceReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLSequenceReportRender struct{}

func (yr *YAMLSequenceReportRender) Write(w io.Writer, r *SequenceReport) error {
	// 只有最內層的一維陣列才輸出成 flow style：[..., ...]
	return forceReadableList(w, r)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		hasChildSeq := false
		for _, c := range n.Content {
			if c != nil && c.Kind == yaml.SequenceNode {
				hasChildSeq = true
				break
			}
		}

		for _, c := range n.Content {
			styleReadableSequences(c)
		}

		if !hasChildSeq {
			n.Style = yaml.FlowStyle
		}
		return

	default:
		return
	}
}
