package ledger

// Fixture is a named set of charges.
type Fixture string

// Predefined fixtures.
const (
	// FixtureStreaming is three monthly streaming services over six months.
	FixtureStreaming Fixture = "streaming"
	// FixtureMixed mixes weekly, monthly and annual charges with noise.
	FixtureMixed Fixture = "mixed"
)

// Charges returns the fixture's charges. Unknown fixtures are empty.
func (f Fixture) Charges() []Charge {
	switch f {
	case FixtureStreaming:
		return []Charge{
			{Merchant: "Netflix", Amount: 15.99, Count: 6, Every: 30},
			{Merchant: "Spotify", Amount: 10.99, Count: 6, Every: 30, Offset: 4},
			{Merchant: "Hulu", Amount: 7.99, Count: 6, Every: 30, Offset: 9},
		}
	case FixtureMixed:
		return []Charge{
			{Merchant: "Gym Membership", Amount: 40, Count: 6, Every: 30, Offset: 2},
			{Merchant: "Meal Kit", Amount: 59.94, Count: 20, Every: 7, Offset: 1},
			{Merchant: "Coffee Shop", Amount: 4.50, Count: 2, Every: 30},
			{Merchant: "Hardware Store", Amount: 82.10, Count: 1, Offset: 12},
		}
	default:
		return nil
	}
}
