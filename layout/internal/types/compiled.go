package types

type CompiledType struct {
	Elem     *CompiledType
	Name     string
	Fields   []Field
	Variants []Variant
	Len      int
	Size     int
	Kind     Kind
	Fixed    bool
}

type Field struct {
	Type *CompiledType
	Name string
}

type Variant struct {
	Name   string
	Fields []Field
	Tuple  bool
}

// Label is the defined name when there is one, else the kind name.
func (ct *CompiledType) Label() string {
	if ct.Name != "" {
		return ct.Name
	}
	switch ct.Kind {
	case KindVec, KindOption, KindCOption:
		if ct.Elem != nil {
			return ct.Kind.String() + "<" + ct.Elem.Label() + ">"
		}
	case KindArray:
		if ct.Elem != nil {
			return "array<" + ct.Elem.Label() + ">"
		}
	}
	return ct.Kind.String()
}

// Children returns every directly referenced type.
func (ct *CompiledType) Children() []*CompiledType {
	var out []*CompiledType
	if ct.Elem != nil {
		out = append(out, ct.Elem)
	}
	for _, f := range ct.Fields {
		out = append(out, f.Type)
	}
	for _, v := range ct.Variants {
		for _, f := range v.Fields {
			out = append(out, f.Type)
		}
	}
	return out
}
