package output

// DefaultAssumptions lists the modelling assumptions printed with every report.
var DefaultAssumptions = []string{
	"Tax: 2025 combined federal + Ontario brackets, boundaries indexed with plan inflation",
	"RRIF minimums: CRA age factors from 71, held at the age-95 factor thereafter",
	"OAS recovery tax: 15% of net income above the indexed threshold, capped at gross OAS",
	"Capital gains: 50% inclusion on the taxable share of non-registered withdrawals",
	"Pension income credit: lowest bracket rate on up to $2,000 of eligible pension income",
	"Estate: deemed disposition in the final year; TFSA balances pass tax free",
	"RRSP balances fold into the RRIF at retirement",
}
