package registry

// catalog is the fixed set of supported component kinds. Fragment templates
// are interpolated against the owning instance (name, pins, options) by the
// normalizer; Set expressions additionally receive ${src}, the summed
// upstream expression, at emission time.
//
// Every read endpoint is normalized to float: momentary and gate inputs
// read as 0/1, three-way switches as 0/1/2, analog controls as 0..1.
var catalog = map[string]*Prototype{
	"switch": {
		Kind:     "switch",
		Typename: "Switch",
		Init:     "${name}.Init(hw.seed.GetPin(${pin}), hw.AudioCallbackRate());",
		Process:  "${name}.Debounce();",
		Mappings: []Mapping{
			{Name: "${name}", Get: "(hw.${name}.Pressed() ? 1.f : 0.f)", Range: &[2]float64{0, 1}, Automap: true},
			{Name: "${name}_press", Get: "hw.${name}.RisingEdge()"},
			{Name: "${name}_release", Get: "hw.${name}.FallingEdge()"},
		},
	},
	"switch3": {
		Kind:     "switch3",
		PinRoles: []string{"a", "b"},
		Typename: "Switch3",
		Init:     "${name}.Init(hw.seed.GetPin(${pin_a}), hw.seed.GetPin(${pin_b}));",
		Mappings: []Mapping{
			{Name: "${name}", Get: "(float)hw.${name}.Read()", Range: &[2]float64{0, 2}, Automap: true},
		},
	},
	"encoder": {
		Kind:     "encoder",
		PinRoles: []string{"a", "b", "click"},
		Typename: "Encoder",
		Init:     "${name}.Init(hw.seed.GetPin(${pin_a}), hw.seed.GetPin(${pin_b}), hw.seed.GetPin(${pin_click}), hw.AudioCallbackRate());",
		Process:  "${name}.Debounce();",
		Mappings: []Mapping{
			{Name: "${name}", Get: "(float)hw.${name}.Increment()", Range: &[2]float64{-1, 1}, Automap: true},
			{Name: "${name}_press", Get: "(hw.${name}.Pressed() ? 1.f : 0.f)", Range: &[2]float64{0, 1}},
			{Name: "${name}_rise", Get: "hw.${name}.RisingEdge()"},
		},
	},
	"gate_in": {
		Kind:     "gate_in",
		Typename: "GateIn",
		Init:     "${name}.Init((dsy_gpio_pin *)&hw.seed.GetPin(${pin}));",
		Mappings: []Mapping{
			{Name: "${name}", Get: "(hw.${name}.State() ? 1.f : 0.f)", Range: &[2]float64{0, 1}},
			{Name: "${name}_trig", Get: "hw.${name}.Trig()"},
		},
	},
	"analog_control": {
		Kind:     "analog_control",
		Typename: "AnalogControl",
		Init:     "${name}.InitBipolarCv(hw.seed.adc.GetPtr(${pin}), hw.AudioCallbackRate());",
		Process:  "${name}.Process();",
		Mappings: []Mapping{
			{Name: "${name}", Get: "hw.${name}.Value()", Range: &[2]float64{0, 1}, Automap: true},
		},
	},
	"led": {
		Kind:     "led",
		Typename: "Led",
		Init:     "${name}.Init(hw.seed.GetPin(${pin}), false);",
		Update:   "${name}.Update();",
		Mappings: []Mapping{
			{Name: "${name}", Set: "hw.${name}.Set(${src});", Range: &[2]float64{0, 1}, Where: "main"},
		},
	},
	"rgb_led": {
		Kind:     "rgb_led",
		PinRoles: []string{"r", "g", "b"},
		Typename: "RgbLed",
		Init:     "${name}.Init(hw.seed.GetPin(${pin_r}), hw.seed.GetPin(${pin_g}), hw.seed.GetPin(${pin_b}), true);",
		Update:   "${name}.Update();",
		Mappings: []Mapping{
			{Name: "${name}", Set: "hw.${name}.Set(${src}, ${src}, ${src});", Range: &[2]float64{0, 1}, Where: "main"},
			{Name: "${name}_r", Set: "hw.${name}.SetRed(${src});", Range: &[2]float64{0, 1}, Where: "main"},
			{Name: "${name}_g", Set: "hw.${name}.SetGreen(${src});", Range: &[2]float64{0, 1}, Where: "main"},
			{Name: "${name}_b", Set: "hw.${name}.SetBlue(${src});", Range: &[2]float64{0, 1}, Where: "main"},
		},
	},
	"gate_out": {
		Kind:     "gate_out",
		Typename: "dsy_gpio",
		Init:     "${name}.pin = hw.seed.GetPin(${pin});\n${name}.mode = DSY_GPIO_MODE_OUTPUT_PP;\ndsy_gpio_init(&${name});",
		Mappings: []Mapping{
			{Name: "${name}", Set: "dsy_gpio_write(&hw.${name}, ${src} > 0.f);", Range: &[2]float64{0, 1}},
		},
	},
	"cv_out": {
		Kind:     "cv_out",
		Typename: "DacHandle",
		Init:     "${name}.Init(DacHandle::Channel(${pin}));",
		Mappings: []Mapping{
			{Name: "${name}", Set: "hw.${name}.Write(uint16_t(${src} * 819.2f));", Range: &[2]float64{0, 5}, Where: "main"},
		},
	},
}
