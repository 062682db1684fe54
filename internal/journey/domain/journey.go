package domain

// Assembler composes journeys from a lead and its related records.
type Assembler struct {
	money    MoneyFormatter
	reporter StepIssueReporter
}

// NewAssembler creates an Assembler. reporter may be nil.
func NewAssembler(money MoneyFormatter, reporter StepIssueReporter) *Assembler {
	return &Assembler{money: money, reporter: reporter}
}

// Assemble builds the journey for one lead. deals may contain the same deal
// more than once; duplicates are collapsed before attribution and synthesis.
func (a *Assembler) Assemble(lead Lead, deals []Deal, enrollments []SequenceEnrollment) Journey {
	deals = DedupeDeals(deals)
	attribution := ResolveAttribution(lead.Status, deals)
	steps := ResolveSteps(lead, deals, enrollments, attribution.Status, a.reporter)

	outbound := PendingOutbound
	if len(steps) > 1 {
		outbound = steps[1]
	}

	var mrr *string
	if attribution.AmountCents != nil && a.money != nil {
		formatted := a.money.FormatCents(*attribution.AmountCents, attribution.Currency)
		mrr = &formatted
	}

	return Journey{
		ID:       lead.ID,
		Source:   steps[0],
		Outbound: outbound,
		Status:   attribution.Status,
		MRR:      mrr,
		Steps:    steps,
	}
}

// LeadRelations groups everything fetched for a page of leads.
type LeadRelations struct {
	DealsByAccount     map[string][]Deal
	DealsByContact     map[string][]Deal
	EnrollmentsContact map[string][]SequenceEnrollment
}

// AssembleAll builds journeys for a page of leads, preserving input order.
func (a *Assembler) AssembleAll(leads []Lead, rel LeadRelations) []Journey {
	out := make([]Journey, 0, len(leads))
	for _, lead := range leads {
		var byAccount, byContact []Deal
		var enrollments []SequenceEnrollment
		if lead.AccountID != nil {
			byAccount = rel.DealsByAccount[lead.AccountID.String()]
		}
		if lead.ContactID != nil {
			key := lead.ContactID.String()
			byContact = rel.DealsByContact[key]
			enrollments = rel.EnrollmentsContact[key]
		}
		out = append(out, a.Assemble(lead, DedupeDeals(byAccount, byContact), enrollments))
	}
	return out
}
