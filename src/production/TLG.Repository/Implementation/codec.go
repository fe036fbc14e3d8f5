package implementation

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	tlgmodels "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models"
	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
)

// Each record type is encoded field by field so the stored shape only changes when
// the codec does.

const (
	attrName      = "name"
	attrLocation  = "location"
	attrCreatedAt = "createdAt"
	attrCelsius   = "celsius"
	attrHumidity  = "humidity"
)

func deviceToItem(d tlgmodels.Device) interfaces.Item {
	item := interfaces.Item{
		tlgmodels.AttrDeviceID: &types.AttributeValueMemberS{Value: d.DeviceID},
	}
	if d.Name != "" {
		item[attrName] = &types.AttributeValueMemberS{Value: d.Name}
	}
	if d.Location != "" {
		item[attrLocation] = &types.AttributeValueMemberS{Value: d.Location}
	}
	if d.CreatedAt != 0 {
		item[attrCreatedAt] = numberAttr(d.CreatedAt)
	}
	return item
}

func deviceFromItem(item interfaces.Item) (tlgmodels.Device, error) {
	var d tlgmodels.Device
	if err := readAttr(item, tlgmodels.AttrDeviceID, &d.DeviceID, true); err != nil {
		return d, err
	}
	if err := readAttr(item, attrName, &d.Name, false); err != nil {
		return d, err
	}
	if err := readAttr(item, attrLocation, &d.Location, false); err != nil {
		return d, err
	}
	if err := readAttr(item, attrCreatedAt, &d.CreatedAt, false); err != nil {
		return d, err
	}
	return d, nil
}

func temperatureToItem(t tlgmodels.Temperature) interfaces.Item {
	return interfaces.Item{
		tlgmodels.AttrDeviceID:  &types.AttributeValueMemberS{Value: t.DeviceID},
		tlgmodels.AttrTimestamp: numberAttr(t.Timestamp),
		attrCelsius:             &types.AttributeValueMemberN{Value: strconv.FormatFloat(t.Celsius, 'f', -1, 64)},
	}
}

func temperatureFromItem(item interfaces.Item) (tlgmodels.Temperature, error) {
	var t tlgmodels.Temperature
	if err := readAttr(item, tlgmodels.AttrDeviceID, &t.DeviceID, true); err != nil {
		return t, err
	}
	if err := readAttr(item, tlgmodels.AttrTimestamp, &t.Timestamp, true); err != nil {
		return t, err
	}
	if err := readAttr(item, attrCelsius, &t.Celsius, true); err != nil {
		return t, err
	}
	return t, nil
}

func humidityToItem(h tlgmodels.Humidity) interfaces.Item {
	return interfaces.Item{
		tlgmodels.AttrDeviceID:  &types.AttributeValueMemberS{Value: h.DeviceID},
		tlgmodels.AttrTimestamp: numberAttr(h.Timestamp),
		attrHumidity:            &types.AttributeValueMemberN{Value: strconv.FormatFloat(h.Humidity, 'f', -1, 64)},
	}
}

func humidityFromItem(item interfaces.Item) (tlgmodels.Humidity, error) {
	var h tlgmodels.Humidity
	if err := readAttr(item, tlgmodels.AttrDeviceID, &h.DeviceID, true); err != nil {
		return h, err
	}
	if err := readAttr(item, tlgmodels.AttrTimestamp, &h.Timestamp, true); err != nil {
		return h, err
	}
	if err := readAttr(item, attrHumidity, &h.Humidity, true); err != nil {
		return h, err
	}
	return h, nil
}

func numberAttr(n int64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
}

// readAttr decodes a single attribute into out. Missing optional attributes leave out untouched.
func readAttr(item interfaces.Item, name string, out any, required bool) error {
	av, ok := item[name]
	if !ok {
		if required {
			return fmt.Errorf("item is missing required attribute %s", name)
		}
		return nil
	}
	if err := attributevalue.Unmarshal(av, out); err != nil {
		return fmt.Errorf("failed to decode attribute %s: %w", name, err)
	}
	return nil
}
