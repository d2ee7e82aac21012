package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

func convertTypeToAttribute(value interface{}) attribute.Value {
	switch v := value.(type) {
	case string:
		return attribute.StringValue(v)
	case int:
		return attribute.IntValue(v)
	case int64:
		return attribute.Int64Value(v)
	case uint64:
		return attribute.Int64Value(int64(v))
	case float64:
		return attribute.Float64Value(v)
	case bool:
		return attribute.BoolValue(v)
	default:
		return attribute.StringValue(fmt.Sprintf("%v", v))
	}
}
