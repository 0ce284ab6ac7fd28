package model

import (
	"github.com/growlab/growlab/internal/model/entities"
	"github.com/growlab/growlab/internal/model/messages"
)

// Aliases exposing the common types to the services.

type (
	ConditionsEvent = messages.ConditionsEvent
	SimulationEvent = messages.SimulationEvent
	CorrectionEvent = messages.CorrectionEvent

	Parameter      = entities.Parameter
	ParameterRange = entities.ParameterRange
	Conditions     = entities.Conditions
	Crop           = entities.Crop
	CropProfile    = entities.CropProfile
	Zone           = entities.Zone
	Greenhouse     = entities.Greenhouse
)
