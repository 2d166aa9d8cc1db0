package item

import "encoding/json"

// The JSON forms follow the standard contract ABI layout.

type jsonParam struct {
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	InternalType string      `json:"internalType,omitempty"`
	Components   []jsonParam `json:"components,omitempty"`
	Indexed      *bool       `json:"indexed,omitempty"`
}

type jsonItem struct {
	Type            Kind        `json:"type"`
	Name            string      `json:"name,omitempty"`
	Inputs          []jsonParam `json:"inputs"`
	Outputs         []jsonParam `json:"outputs,omitempty"`
	StateMutability Mutability  `json:"stateMutability,omitempty"`
	Anonymous       *bool       `json:"anonymous,omitempty"`
}

func toJSONParams(params []Parameter, event bool) []jsonParam {
	out := make([]jsonParam, 0, len(params))
	for _, p := range params {
		jp := jsonParam{
			Name:         p.Name,
			Type:         p.TypeName,
			InternalType: p.InternalType,
			Components:   toJSONParams(p.Components, false),
		}
		if len(jp.Components) == 0 {
			jp.Components = nil
		}
		if event {
			indexed := p.Indexed
			jp.Indexed = &indexed
		}
		out = append(out, jp)
	}
	return out
}

func (f Function) MarshalJSON() ([]byte, error) {
	outputs := toJSONParams(f.Outputs, false)
	return json.Marshal(struct {
		jsonItem
		Outputs []jsonParam `json:"outputs"`
	}{
		jsonItem: jsonItem{
			Type:            KindFunction,
			Name:            f.Name,
			Inputs:          toJSONParams(f.Inputs, false),
			StateMutability: f.StateMutability,
		},
		Outputs: outputs,
	})
}

func (e Event) MarshalJSON() ([]byte, error) {
	anonymous := e.Anonymous
	return json.Marshal(jsonItem{
		Type:      KindEvent,
		Name:      e.Name,
		Inputs:    toJSONParams(e.Inputs, true),
		Anonymous: &anonymous,
	})
}

func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonItem{
		Type:   KindError,
		Name:   e.Name,
		Inputs: toJSONParams(e.Inputs, false),
	})
}

func (c Constructor) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonItem{
		Type:            KindConstructor,
		Inputs:          toJSONParams(c.Inputs, false),
		StateMutability: c.StateMutability,
	})
}

func (f Fallback) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type            Kind       `json:"type"`
		StateMutability Mutability `json:"stateMutability"`
	}{KindFallback, f.StateMutability})
}

func (r Receive) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type            Kind       `json:"type"`
		StateMutability Mutability `json:"stateMutability"`
	}{KindReceive, r.StateMutability})
}

// MarshalJSON encodes a lone parameter. The indexed flag only appears when
// set.
func (p Parameter) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSONParams([]Parameter{p}, p.Indexed)[0])
}
