package nemde

// MMS report names consumed by the lookup service.
const (
	TableGenConData          = "GENCONDATA"
	TableConnectionPointLHS  = "SPDCONNECTIONPOINTCONSTRAINT"
	TableInterconnectorLHS   = "SPDINTERCONNECTORCONSTRAINT"
	TableRegionLHS           = "SPDREGIONCONSTRAINT"
	TableConstraintRHS       = "GENERICCONSTRAINTRHS"
	TableGenericEquationDesc = "GENERICEQUATIONDESC"
	TableGenericEquationRHS  = "GENERICEQUATIONRHS"
	TableDispatchableUnits   = "DUDETAIL"
	TableEMSMaster           = "EMSMASTER"
)
