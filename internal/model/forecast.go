package model

import "time"

// Forecast holds one model's predictions aligned with the test rows
type Forecast struct {
	Model     string      `json:"model"`
	Dates     []time.Time `json:"dates"`
	Actual    []float64   `json:"actual"`
	Predicted []float64   `json:"predicted"`
}

// Score holds the error metrics of one model on the test segment
type Score struct {
	Model string  `json:"model"`
	RMSE  float64 `json:"rmse"`
	MAE   float64 `json:"mae"`
	R2    float64 `json:"r2"`
}

// Coefficient is one fitted term of the linear model
type Coefficient struct {
	Term  string  `json:"term"`
	Value float64 `json:"value"`
}

// Importance is the share of impurity reduction attributed to a predictor
type Importance struct {
	Field Field   `json:"field"`
	Value float64 `json:"value"`
}

// Report is the outcome of one forecasting run
type Report struct {
	Source       string        `json:"source"`
	Rows         int           `json:"rows"`
	FilledCells  int           `json:"filled_cells"`
	Corrected    int           `json:"corrected_cells"`
	TrainRows    int           `json:"train_rows"`
	TestRows     int           `json:"test_rows"`
	SplitDate    time.Time     `json:"split_date"` // date of the first test row
	Coefficients []Coefficient `json:"coefficients"`
	Importances  []Importance  `json:"importances,omitempty"`
	Scores       []Score       `json:"scores"`
	Forecasts    []Forecast    `json:"forecasts"`
}

// Score returns the score recorded for the named model
func (r *Report) Score(name string) (Score, bool) {
	for _, s := range r.Scores {
		if s.Model == name {
			return s, true
		}
	}
	return Score{}, false
}
