// Package factory builds pluggable components, such as the calculation
// metrics sinks, from a list of ModuleConfig entries. Each entry carries a
// type name and raw settings; the factory registered for the type decodes
// the settings with Decode and returns the implementation.
//
//	reg := factory.NewRegistry[metrics.MetricsSink]()
//	reg.MustRegister("jsonl", func(conf map[string]any) (metrics.MetricsSink, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return newHistorySink(c.Path)
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "calc.jsonl"}})
package factory
