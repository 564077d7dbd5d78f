// Package dumper renders workflow definitions for humans and tools.
//
// GraphvizDumper draws places and transitions as separate nodes, which suits
// workflows. StateMachineGraphvizDumper draws one labelled edge per
// transition. PlantUMLDumper writes a PlantUML state diagram and YAMLDumper a
// YAML document that includes every metadata value.
//
//	out, err := dumper.NewGraphvizDumper().Dump(wf.Definition(), order.State)
//	if err != nil {
//	    return err
//	}
//	// pipe out through `dot -Tpng`
//
// Display hints are read from metadata: "label" and "bg_color" for places and
// transitions, "description" for PlantUML places, "color" and "arrow_color"
// for transitions.
package dumper
