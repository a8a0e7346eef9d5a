package encoders

import (
	_ "github.com/gekatateam/loggate/plugins/encoders/json"
	_ "github.com/gekatateam/loggate/plugins/encoders/text"
)
