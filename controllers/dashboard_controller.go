package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"healthtracker/middlewares"
	"healthtracker/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardController struct {
	Records *services.HealthRecordService
	Log     *zap.Logger
}

func NewDashboardController(records *services.HealthRecordService, log *zap.Logger) *DashboardController {
	return &DashboardController{Records: records, Log: log}
}

type filterOption struct {
	Value    string
	Label    string
	Selected bool
}

type columnView struct {
	Label  string
	Href   string
	Active bool
	Arrow  string
}

type rowView struct {
	ID               string
	Date             string
	Temperature      string
	BodyTemperature  float64
	Systolic         int
	Diastolic        int
	HeartRate        int
	TemperatureAlert bool
	PressureAlert    bool
	HeartRateAlert   bool
	Warnings         []string
}

type dashboardView struct {
	Title   string
	Term    string
	Filters []filterOption
	Columns []columnView
	Rows    []rowView
	Total   int
	Sort    string
	Order   string
}

var fieldLabels = map[services.Field]string{
	services.FieldDate:            "Date",
	services.FieldHeartRate:       "Heart Rate",
	services.FieldBodyTemperature: "Body Temperature",
	services.FieldBloodPressure:   "Blood Pressure",
}

// columnOrder is the table layout, which differs from the filter selector order.
var columnOrder = []services.Field{
	services.FieldDate,
	services.FieldBodyTemperature,
	services.FieldBloodPressure,
	services.FieldHeartRate,
}

// Dashboard renders the record table. Query parameters:
// q (search term), filter (field searched), sort (field) and order (asc|desc).
func (dc *DashboardController) Dashboard(c *gin.Context) {
	term := c.Query("q")
	filter := services.ParseField(c.Query("filter"))

	var sort *services.SortState
	if s := c.Query("sort"); s != "" {
		sort = &services.SortState{Field: services.ParseField(s), Ascending: c.Query("order") != "desc"}
	}

	dash, err := dc.Records.Dashboard(c.Request.Context(), services.DashboardQuery{Term: term, Filter: filter, Sort: sort})
	if err != nil {
		dc.Log.Error("dashboard failed", zap.Error(err))
		c.String(http.StatusInternalServerError, middlewares.GenericErrorMessage)
		return
	}

	view := dashboardView{
		Title: "Health Metrics Dashboard",
		Term:  term,
		Total: dash.Total,
	}
	if sort != nil {
		view.Sort = string(sort.Field)
		view.Order = sort.Order()
	}
	for _, f := range services.Fields {
		view.Filters = append(view.Filters, filterOption{Value: string(f), Label: fieldLabels[f], Selected: f == filter})
	}
	for _, f := range columnOrder {
		view.Columns = append(view.Columns, sortColumn(f, sort, term, filter))
	}
	for _, row := range dash.Rows {
		rec := row.Record
		rv := rowView{
			ID:               rec.ID,
			Date:             rec.DateString(),
			Temperature:      strconv.FormatFloat(rec.BodyTemperature, 'f', -1, 64),
			BodyTemperature:  rec.BodyTemperature,
			Systolic:         rec.BloodPressure.Systolic,
			Diastolic:        rec.BloodPressure.Diastolic,
			HeartRate:        rec.HeartRate,
			TemperatureAlert: row.Assessment.Temperature,
			PressureAlert:    row.Assessment.BloodPressure,
			HeartRateAlert:   row.Assessment.HeartRate,
		}
		for _, w := range row.Assessment.Warnings {
			rv.Warnings = append(rv.Warnings, w.Message)
		}
		view.Rows = append(view.Rows, rv)
	}

	c.HTML(http.StatusOK, "dashboard.html", view)
}

// sortColumn builds the header link that toggles the sort direction and
// selects f, keeping the current search.
func sortColumn(f services.Field, current *services.SortState, term string, filter services.Field) columnView {
	next := services.SortState{}
	if current != nil {
		next = *current
	}
	next.Toggle(f)

	q := url.Values{}
	if term != "" {
		q.Set("q", term)
	}
	q.Set("filter", string(filter))
	q.Set("sort", string(next.Field))
	q.Set("order", next.Order())

	col := columnView{Label: fieldLabels[f], Href: "/?" + q.Encode()}
	if current != nil && current.Field == f {
		col.Active = true
		col.Arrow = "▼"
		if current.Ascending {
			col.Arrow = "▲"
		}
	}
	return col
}
