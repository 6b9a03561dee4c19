package mapping

import "github.com/latspace/mapping-agent/internal/model"

func testRegistry() *model.Registry {
	return model.NewRegistry(map[string]model.Parameter{
		"power_generation":  {Description: "Net electrical power", Unit: "MW", Aliases: []string{"power", "gen"}},
		"steam_generation":  {Description: "Steam mass flow", Unit: "TPH", Aliases: []string{"steam flow", "steam"}},
		"coal_consumption":  {Description: "Coal fed", Unit: "MT", Aliases: []string{"coal"}},
		"water_consumption": {Description: "Water consumed", Unit: "m3", Aliases: []string{"h2o usage"}},
		"temperature":       {Description: "Process temperature", Unit: "C", Aliases: []string{"temp"}},
		"pressure":          {Description: "Process pressure", Unit: "bar", Aliases: []string{"press"}},
		"efficiency":        {Description: "Efficiency", Unit: "%", Aliases: []string{"eff"}},
	})
}

func strPtr(s string) *string { return &s }
