package core

import (
	"strings"
	"testing"
)

func TestRecommend_HealthySavings(t *testing.T) {
	// income 50000, expenses 10000, goal 5000: ratio 80%, expenses under 80%
	// of income, goal exceeded.
	budget := Budget{
		UserID:        "u1",
		MonthlyIncome: Money{Paise: 50000_00},
		SavingsGoal:   Money{Paise: 5000_00},
		DaysInMonth:   31,
	}
	o := ComputeSavings(budget, Money{Paise: 10000_00})

	if o.CurrentSavings.Paise != 40000_00 {
		t.Errorf("CurrentSavings = %d, want 4000000", o.CurrentSavings.Paise)
	}
	if o.MonthlySavings.Paise != 40000_00 {
		t.Errorf("MonthlySavings = %d, want 4000000", o.MonthlySavings.Paise)
	}
	if len(o.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1: %v", len(o.Recommendations), o.Recommendations)
	}
	if o.Recommendations[0] != adviceGoalMet {
		t.Errorf("recommendation = %q", o.Recommendations[0])
	}
}

func TestRecommend_AllWarningsFire(t *testing.T) {
	// income 20000, expenses 19000, goal 2000: ratio 5%, expenses over 16000,
	// savings 1000 short of goal. Three messages, in rule order.
	budget := Budget{
		UserID:        "u1",
		MonthlyIncome: Money{Paise: 20000_00},
		SavingsGoal:   Money{Paise: 2000_00},
		DaysInMonth:   30,
	}
	o := ComputeSavings(budget, Money{Paise: 19000_00})

	if o.CurrentSavings.Paise != 1000_00 || o.MonthlySavings.Paise != 1000_00 {
		t.Fatalf("savings = %d/%d, want 100000/100000", o.CurrentSavings.Paise, o.MonthlySavings.Paise)
	}
	if len(o.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3: %v", len(o.Recommendations), o.Recommendations)
	}
	if o.Recommendations[0] != adviceSaveMore {
		t.Errorf("rule 1 message = %q", o.Recommendations[0])
	}
	if o.Recommendations[1] != adviceHighExpenses {
		t.Errorf("rule 2 message = %q", o.Recommendations[1])
	}
	if !strings.Contains(o.Recommendations[2], "₹1000.00 below your savings goal") {
		t.Errorf("deficit message = %q", o.Recommendations[2])
	}
}

func TestRecommend_DeficitAndGoalMetAreMutuallyExclusive(t *testing.T) {
	tests := []struct {
		name           string
		monthlySavings int64
		savingsGoal    int64
		wantDeficit    bool
	}{
		{"below goal", 1000_00, 2000_00, true},
		{"exactly at goal", 2000_00, 2000_00, false},
		{"above goal", 3000_00, 2000_00, false},
		{"zero goal zero savings", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := Recommend(
				Money{Paise: tt.monthlySavings},
				Money{Paise: 10000_00},
				Money{Paise: 0},
				Money{Paise: tt.savingsGoal},
			)
			var deficit, goalMet bool
			for _, m := range msgs {
				if strings.Contains(m, "below your savings goal") {
					deficit = true
				}
				if m == adviceGoalMet {
					goalMet = true
				}
			}
			if deficit == goalMet {
				t.Fatalf("deficit=%v goalMet=%v, exactly one must fire: %v", deficit, goalMet, msgs)
			}
			if deficit != tt.wantDeficit {
				t.Errorf("deficit fired = %v, want %v", deficit, tt.wantDeficit)
			}
		})
	}
}

func TestRecommend_ZeroIncome(t *testing.T) {
	// Undefined savings ratio must not surface as NaN; it reads as a neutral
	// 0%, which is below the 20% threshold.
	msgs := Recommend(Money{}, Money{}, Money{}, Money{Paise: 100})
	if len(msgs) != 2 {
		t.Fatalf("got %d recommendations, want 2: %v", len(msgs), msgs)
	}
	if msgs[0] != adviceSaveMore {
		t.Errorf("first message = %q", msgs[0])
	}
}

func TestRecommend_BoundsOnMessageCount(t *testing.T) {
	cases := []struct {
		savings, income, expenses, goal int64
	}{
		{0, 0, 0, 0},
		{100, 100, 100, 100},
		{5000, 10000, 9000, 1000},
		{9000, 10000, 1000, 100},
	}
	for _, c := range cases {
		msgs := Recommend(Money{Paise: c.savings}, Money{Paise: c.income}, Money{Paise: c.expenses}, Money{Paise: c.goal})
		if len(msgs) < 1 || len(msgs) > 3 {
			t.Errorf("Recommend(%+v) returned %d messages", c, len(msgs))
		}
	}
}
