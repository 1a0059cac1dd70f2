package locomotion

import (
	"fmt"

	"schmoovin/motiongraph/data"
	"schmoovin/motiongraph/graph"
	"schmoovin/motiongraph/param"
)

// DemoTemplateName is the template name override assets for the demo
// character must carry.
const DemoTemplateName = "demo-character"

// Data names backing Settings in the demo template.
const (
	DataWalkSpeed   = "walk_speed"
	DataSprintSpeed = "sprint_speed"
	DataJumpHeight  = "jump_height"
	DataCanSprint   = "can_sprint"
	DataMaxAirJumps = "max_air_jumps"
)

// DemoTemplate builds the standard character graph: every parameter the
// Mover and the environment collaborators use, the Data behind Settings,
// and the Settings block itself.
func DemoTemplate() (*graph.Template, error) {
	tmpl, err := graph.NewTemplate(DemoTemplateName,
		[]graph.ParameterDef{
			{Name: NameSpeed, Kind: param.KindFloat, Reset: graph.ResetManual},
			{Name: NameAirJumps, Kind: param.KindInt, Reset: graph.ResetManual},
			{Name: NameSprint, Kind: param.KindSwitch, Reset: graph.ResetManual},
			{Name: NameJump, Kind: param.KindTrigger},
			{Name: NameLaunched, Kind: param.KindTrigger},
			{Name: NameLadder, Kind: param.KindTransform, Reset: graph.ResetManual},
			{Name: NameWater, Kind: param.KindTransform, Reset: graph.ResetManual},
			{Name: NameImpulse, Kind: param.KindVector},
			{Name: NameFootstep, Kind: param.KindEvent},
		},
		[]graph.DataDef{
			{Name: DataWalkSpeed, Kind: data.KindFloat, Float: 4},
			{Name: DataSprintSpeed, Kind: data.KindFloat, Float: 7.5},
			{Name: DataJumpHeight, Kind: data.KindFloat, Float: 1.2},
			{Name: DataCanSprint, Kind: data.KindBool, Bool: true},
			{Name: DataMaxAirJumps, Kind: data.KindInt, Int: 1},
		},
	)
	if err != nil {
		return nil, err
	}

	arena := tmpl.Data()
	walk, _ := data.Get[float64](arena, tmpl.KeyFor(DataWalkSpeed))
	sprint, _ := data.Get[float64](arena, tmpl.KeyFor(DataSprintSpeed))
	jump, _ := data.Get[float64](arena, tmpl.KeyFor(DataJumpHeight))
	canSprint, _ := data.Get[bool](arena, tmpl.KeyFor(DataCanSprint))
	airJumps, _ := data.Get[int](arena, tmpl.KeyFor(DataMaxAirJumps))

	settings := &Settings{
		WalkSpeed:   data.Ref(walk, fallbackSettings.WalkSpeed.Fallback()),
		SprintSpeed: data.Ref(sprint, fallbackSettings.SprintSpeed.Fallback()),
		JumpHeight:  data.Ref(jump, fallbackSettings.JumpHeight.Fallback()),
		CanSprint:   data.Ref(canSprint, fallbackSettings.CanSprint.Fallback()),
		MaxAirJumps: data.Ref(airJumps, fallbackSettings.MaxAirJumps.Fallback()),
	}
	if err := tmpl.AddConfig(SettingsConfig, settings); err != nil {
		return nil, fmt.Errorf("locomotion: %w", err)
	}
	return tmpl, nil
}

// Templates maps template names to builders. The CLI resolves -template
// through it.
var Templates = map[string]func() (*graph.Template, error){
	DemoTemplateName: DemoTemplate,
}
