package roster

// Rules stores the configurable game parameters read by the engine.
type Rules struct {
	BudgetCap       int64
	FreeTransfers   int
	TransferPenalty int
}

func DefaultRules() Rules {
	return Rules{
		BudgetCap:       1000,
		FreeTransfers:   1,
		TransferPenalty: 4,
	}
}
