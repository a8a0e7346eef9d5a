package text

import (
	"bytes"
	"strings"

	"github.com/gekatateam/loggate/core"
	"github.com/gekatateam/loggate/plugins"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Text encodes events like
//
//	2024-01-02T15:04:05.000Z WARN [app.db] slow query took 5s
type Text struct{}

func (s *Text) Encode(e *core.Event) ([]byte, error) {
	b := bytes.NewBuffer(make([]byte, 0, 128))
	b.WriteString(e.Timestamp.Format(timeLayout))
	b.WriteByte(' ')
	b.WriteString(strings.ToUpper(e.Level.String()))
	if len(e.Category) > 0 {
		b.WriteString(" [")
		b.WriteString(e.Category)
		b.WriteByte(']')
	}
	b.WriteByte(' ')
	b.WriteString(e.Message())
	return b.Bytes(), nil
}

func init() {
	plugins.AddEncoder("text", func() core.Encoder {
		return &Text{}
	})
}

