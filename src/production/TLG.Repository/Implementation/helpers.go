package implementation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
)

// toAttr converts a plain key value (string or number) to its attribute encoding
func toAttr(value any) (types.AttributeValue, error) {
	if value == nil {
		return nil, fmt.Errorf("key value is nil")
	}
	av, err := attributevalue.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key value %v: %w", value, err)
	}
	switch av.(type) {
	case *types.AttributeValueMemberS, *types.AttributeValueMemberN, *types.AttributeValueMemberB:
		return av, nil
	}
	return nil, fmt.Errorf("unsupported key value type %T", value)
}

// buildKey encodes a Key. The sort component is only included when both its name and value are set.
func buildKey(key interfaces.Key) (interfaces.Item, error) {
	if key.Name == "" {
		return nil, fmt.Errorf("key name is empty")
	}
	pk, err := toAttr(key.Value)
	if err != nil {
		return nil, err
	}
	item := interfaces.Item{key.Name: pk}

	if key.SortName != "" && key.SortValue != nil {
		sk, err := toAttr(key.SortValue)
		if err != nil {
			return nil, err
		}
		item[key.SortName] = sk
	}
	return item, nil
}

// omitNulls drops attributes that carry no value so they are not stored as NULL
func omitNulls(item interfaces.Item) interfaces.Item {
	out := make(interfaces.Item, len(item))
	for name, av := range item {
		if av == nil {
			continue
		}
		if _, isNull := av.(*types.AttributeValueMemberNULL); isNull {
			continue
		}
		out[name] = av
	}
	return out
}

// attrKey renders an attribute as a comparable string. Numbers are normalized so 1000 and 1000.0 match.
func attrKey(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return "S:" + v.Value
	case *types.AttributeValueMemberN:
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			return "N:" + strconv.FormatFloat(f, 'f', -1, 64)
		}
		return "N:" + v.Value
	case *types.AttributeValueMemberB:
		return "B:" + string(v.Value)
	case *types.AttributeValueMemberBOOL:
		return "BOOL:" + strconv.FormatBool(v.Value)
	}
	return fmt.Sprintf("%T", av)
}

// compareAttr orders two scalar attributes of the same type
func compareAttr(a, b types.AttributeValue) (int, error) {
	switch av := a.(type) {
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		if !ok {
			return 0, fmt.Errorf("cannot compare number with %T", b)
		}
		af, err := strconv.ParseFloat(av.Value, 64)
		if err != nil {
			return 0, err
		}
		bf, err := strconv.ParseFloat(bv.Value, 64)
		if err != nil {
			return 0, err
		}
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		}
		return 0, nil
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		if !ok {
			return 0, fmt.Errorf("cannot compare string with %T", b)
		}
		return strings.Compare(av.Value, bv.Value), nil
	}
	return 0, fmt.Errorf("unsupported sort attribute type %T", a)
}
