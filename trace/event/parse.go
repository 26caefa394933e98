package event

import (
	"bytes"
	"encoding/gob"
	"io"
	"io/ioutil"
)

func Parse(filename string) ([]Event, error) {
	file, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(file)
	dec := gob.NewDecoder(buf)
	var events []Event

	for {
		var event Event
		err = dec.Decode(&event)
		if err != nil {
			if err == io.EOF {
				break
			}
			return events, err
		}
		events = append(events, event)
	}

	return events, nil
}

// ByType groups events by their Type, preserving each group's relative
// order.
func ByType(events []Event) map[Type][]Event {
	grouped := make(map[Type][]Event)
	for _, e := range events {
		grouped[e.Type] = append(grouped[e.Type], e)
	}
	return grouped
}
