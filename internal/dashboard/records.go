package dashboard

// Plain records as fetched from the document store. The aggregation never
// mutates them. Date and Timestamp fields are deliberately untyped: the
// store and older clients wrote day strings, full timestamps, locale
// strings and timestamp objects interchangeably, and ToDateKey is the one
// place that sorts that out.

type Exercise struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

type FitnessLog struct {
	ID        string     `json:"id"`
	Date      any        `json:"date,omitempty"`
	Timestamp any        `json:"timestamp,omitempty"`
	Exercises []Exercise `json:"exercises"`
	Notes     string     `json:"notes,omitempty"`
}

type CalorieEntry struct {
	ID        string  `json:"id"`
	Date      any     `json:"date,omitempty"`
	Timestamp any     `json:"timestamp,omitempty"`
	FoodName  string  `json:"foodName"`
	Calories  float64 `json:"calories"`
	Portion   string  `json:"portion,omitempty"`
	MealType  string  `json:"mealType,omitempty"`
}

type ExpenseEntry struct {
	ID          string  `json:"id"`
	Date        any     `json:"date,omitempty"`
	Timestamp   any     `json:"timestamp,omitempty"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

type TodoItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     any    `json:"dueDate,omitempty"`
	Completed   bool   `json:"completed"`
	CreatedAt   any    `json:"createdAt,omitempty"`
}

// AttendanceData is the collection form of office attendance: a date
// present in Dates means attended, absence means not attended.
type AttendanceData struct {
	Dates []string          `json:"dates"`
	Notes map[string]string `json:"notes,omitempty"`
}

// Collections is the fully-materialized input snapshot for one aggregation
// call.
type Collections struct {
	FitnessLogs    []FitnessLog   `json:"fitnessLogs"`
	CalorieData    []CalorieEntry `json:"calorieData"`
	ExpenseData    []ExpenseEntry `json:"expenseData"`
	TodoData       []TodoItem     `json:"todoData"`
	AttendanceData AttendanceData `json:"attendanceData"`
}
