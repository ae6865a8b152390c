package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

func (p *Parser) coerce(raw any) (any, error) {
	if !p.outputType.IsArray() {
		return p.coerceScalar(p.outputType, raw)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, invalid("final_answer must be a JSON array, got %s", describe(raw))
	}

	elem := p.outputType.Elem()
	values := make([]any, 0, len(items))
	for i, item := range items {
		v, err := p.coerceScalar(elem, item)
		if err != nil {
			return nil, fmt.Errorf("%w (item %d)", err, i)
		}
		values = append(values, v)
	}

	switch p.outputType {
	case ArrayString:
		return collect[string](values), nil
	case ArrayInteger:
		return collect[int](values), nil
	case ArrayFloat:
		return collect[float64](values), nil
	case ArrayStruct:
		return collect[map[string]any](values), nil
	case ArrayObject:
		if p.collect != nil {
			return p.collect(values), nil
		}
		return collect[map[string]any](values), nil
	}
	return values, nil
}

func collect[T any](values []any) []T {
	out := make([]T, 0, len(values))
	for _, v := range values {
		out = append(out, v.(T))
	}
	return out
}

func (p *Parser) coerceScalar(t OutputType, raw any) (any, error) {
	switch t {
	case String:
		switch v := raw.(type) {
		case string:
			return v, nil
		case float64, bool:
			return fmt.Sprint(v), nil
		}
		return nil, invalid("final_answer must be a string, got %s", describe(raw))

	case Integer:
		switch v := raw.(type) {
		case float64:
			if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
				return int(v), nil
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, nil
			}
		}
		return nil, invalid("final_answer must be an integer, got %s", describe(raw))

	case Float:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, nil
			}
		}
		return nil, invalid("final_answer must be a number, got %s", describe(raw))

	case Boolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b, nil
			}
		}
		return nil, invalid("final_answer must be true or false, got %s", describe(raw))

	case Date, Timestamp:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid("final_answer must be a string formatted like %s, got %s", sampleTime(p.layout), describe(raw))
		}
		ts, err := time.Parse(p.layout, strings.TrimSpace(s))
		if err != nil {
			return nil, invalid("final_answer %q must be formatted like %s", s, sampleTime(p.layout))
		}
		return ts, nil

	case Struct, Object:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, invalid("final_answer must be a JSON object, got %s", describe(raw))
		}
		if err := p.schema.Validate(m); err != nil {
			return nil, invalid("final_answer does not match the schema: %v", err)
		}
		if t == Object && p.decode != nil {
			v, err := p.decode(m)
			if err != nil {
				return nil, invalid("final_answer does not match the schema: %v", err)
			}
			return v, nil
		}
		return p.schema.Filter(m), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownOutputType, t)
}

// EmptyAnswer is the answer reported when the model never produced a valid one:
// struct answers get every declared key set to nil, objects their zero value, and the
// array forms a single such element. Other types have no empty answer.
func (p *Parser) EmptyAnswer() any {
	switch p.outputType {
	case Struct:
		return p.emptyStruct()
	case ArrayStruct:
		return []map[string]any{p.emptyStruct()}
	case Object:
		if p.zero != nil {
			return p.zero()
		}
		return p.emptyStruct()
	case ArrayObject:
		if p.zero != nil {
			return p.collect([]any{p.zero()})
		}
		return []map[string]any{p.emptyStruct()}
	}
	return nil
}

func (p *Parser) emptyStruct() map[string]any {
	out := make(map[string]any)
	for _, name := range p.schema.Fields() {
		out[name] = nil
	}
	return out
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("the string %q", v)
	case float64:
		return fmt.Sprintf("the number %v", v)
	case bool:
		return fmt.Sprintf("the boolean %v", v)
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	}
	data, _ := json.Marshal(v)
	return string(data)
}

// sampleTime renders a fixed instant with layout, which reads better in prompts than
// Go's reference time.
func sampleTime(layout string) string {
	return time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC).Format(layout)
}
