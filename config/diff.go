package config

import "reflect"

// diffEvent compares two configuration structs field by field and
// builds the change event sent to subscribers. Only top-level field
// names are reported; a change anywhere inside a nested struct marks
// the whole field.
func diffEvent(old, new any) Event {
	evt := Event{OldConfig: old, NewConfig: new}
	if old == nil || new == nil {
		return evt
	}

	oldVal := reflect.ValueOf(old)
	newVal := reflect.ValueOf(new)
	if oldVal.Kind() == reflect.Ptr {
		oldVal = oldVal.Elem()
	}
	if newVal.Kind() == reflect.Ptr {
		newVal = newVal.Elem()
	}
	if oldVal.Kind() != reflect.Struct || newVal.Kind() != reflect.Struct {
		return evt
	}

	oldType := oldVal.Type()
	for i := 0; i < oldVal.NumField(); i++ {
		if !reflect.DeepEqual(oldVal.Field(i).Interface(), newVal.Field(i).Interface()) {
			evt.ChangedKeys = append(evt.ChangedKeys, oldType.Field(i).Name)
		}
	}
	return evt
}
