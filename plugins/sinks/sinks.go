package sinks

import (
	_ "github.com/gekatateam/loggate/plugins/sinks/console"
	_ "github.com/gekatateam/loggate/plugins/sinks/file"
	_ "github.com/gekatateam/loggate/plugins/sinks/kafka"
)
