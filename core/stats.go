package core

import (
	"context"
	"fmt"
	"time"

	"civicfix-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CitizenStats summarizes one reporter's issues and spending.
type CitizenStats struct {
	TotalSubmitted int64 `json:"totalSubmitted"`
	Pending        int64 `json:"pending"`
	InProgress     int64 `json:"inProgress"`
	Working        int64 `json:"working"`
	Resolved       int64 `json:"resolved"`
	Closed         int64 `json:"closed"`
	Rejected       int64 `json:"rejected"`
	TotalPayments  int64 `json:"totalPayments"`
}

// StatsForReporter aggregates a citizen's dashboard numbers. Empty
// scopes come back as zeros, never as errors.
func StatsForReporter(ctx context.Context, reporterEmail string) (*CitizenStats, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	stats := &CitizenStats{}
	byStatus, err := countByStatus(ctx, bson.M{"reporterEmail": reporterEmail})
	if err != nil {
		return nil, err
	}
	stats.Pending = byStatus[models.Pending]
	stats.InProgress = byStatus[models.InProgress]
	stats.Working = byStatus[models.Working]
	stats.Resolved = byStatus[models.Resolved]
	stats.Closed = byStatus[models.Closed]
	stats.Rejected = byStatus[models.Rejected]
	for _, n := range byStatus {
		stats.TotalSubmitted += n
	}

	stats.TotalPayments, err = sumAmounts(ctx, bson.M{"userEmail": reporterEmail})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// StaffStats summarizes the workload of one staff member.
type StaffStats struct {
	TotalAssigned   int64 `json:"totalAssigned"`
	PendingCount    int64 `json:"pendingCount"`
	InProgressCount int64 `json:"inProgressCount"`
	WorkingCount    int64 `json:"workingCount"`
	ResolvedCount   int64 `json:"resolvedCount"`
	ClosedCount     int64 `json:"closedCount"`
}

// StatsForStaff aggregates an assignee's dashboard numbers.
func StatsForStaff(ctx context.Context, staffEmail string) (*StaffStats, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	byStatus, err := countByStatus(ctx, bson.M{"assignedStaff.email": staffEmail})
	if err != nil {
		return nil, err
	}

	stats := &StaffStats{
		PendingCount:    byStatus[models.Pending],
		InProgressCount: byStatus[models.InProgress],
		WorkingCount:    byStatus[models.Working],
		ResolvedCount:   byStatus[models.Resolved],
		ClosedCount:     byStatus[models.Closed],
	}
	for _, n := range byStatus {
		stats.TotalAssigned += n
	}
	return stats, nil
}

// CategoryCount is one slice of the issues-by-category breakdown.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// DayCount is one bucket of the last-7-days submission trend.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AdminStats is the global dashboard view.
type AdminStats struct {
	TotalIssues      int64           `json:"totalIssues"`
	PendingIssues    int64           `json:"pendingIssues"`
	InProgressIssues int64           `json:"inProgressIssues"`
	WorkingIssues    int64           `json:"workingIssues"`
	ResolvedIssues   int64           `json:"resolvedIssues"`
	ClosedIssues     int64           `json:"closedIssues"`
	RejectedIssues   int64           `json:"rejectedIssues"`
	TotalUsers       int64           `json:"totalUsers"`
	TotalStaff       int64           `json:"totalStaff"`
	TotalRevenue     int64           `json:"totalRevenue"`
	IssuesByCategory []CategoryCount `json:"issuesByCategory"`
	Last7Days        []DayCount      `json:"last7Days"`
	LatestIssues     []models.Issue  `json:"latestIssues"`
	LatestUsers      []models.User   `json:"latestUsers"`
}

// StatsGlobal aggregates the admin dashboard: totals by status, user and
// staff counts, revenue, category breakdown, a 7-day submission trend
// and latest-N listings.
func StatsGlobal(ctx context.Context) (*AdminStats, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	stats := &AdminStats{}

	byStatus, err := countByStatus(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	stats.PendingIssues = byStatus[models.Pending]
	stats.InProgressIssues = byStatus[models.InProgress]
	stats.WorkingIssues = byStatus[models.Working]
	stats.ResolvedIssues = byStatus[models.Resolved]
	stats.ClosedIssues = byStatus[models.Closed]
	stats.RejectedIssues = byStatus[models.Rejected]
	for _, n := range byStatus {
		stats.TotalIssues += n
	}

	stats.TotalUsers, err = userCollection().CountDocuments(ctx, bson.M{"role": models.RoleCitizen})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count users", ErrUnavailable)
	}
	stats.TotalStaff, err = userCollection().CountDocuments(ctx, bson.M{"role": models.RoleStaff})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count staff", ErrUnavailable)
	}
	stats.TotalRevenue, err = sumAmounts(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	// Issues by category using aggregation
	categoryPipeline := []bson.M{
		{"$group": bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}},
		{"$project": bson.M{"name": "$_id", "value": "$count", "_id": 0}},
	}
	categoryCursor, err := issueCollection().Aggregate(ctx, categoryPipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get category analytics", ErrUnavailable)
	}
	defer categoryCursor.Close(ctx)
	stats.IssuesByCategory = []CategoryCount{}
	if err := categoryCursor.All(ctx, &stats.IssuesByCategory); err != nil {
		return nil, fmt.Errorf("%w: failed to decode category analytics", ErrUnavailable)
	}

	// Last 7 days, one bucket per calendar day
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		nextDate := date.AddDate(0, 0, 1)

		count, err := issueCollection().CountDocuments(ctx, bson.M{
			"createdAt": bson.M{"$gte": date, "$lt": nextDate},
		})
		if err != nil {
			count = 0
		}
		stats.Last7Days = append(stats.Last7Days, DayCount{
			Date:  date.Format("2006-01-02"),
			Count: count,
		})
	}

	stats.LatestIssues, err = latestIssues(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.LatestUsers, err = latestUsers(ctx, 5)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// PaymentsReport is the admin view over all confirmed charges.
type PaymentsReport struct {
	Payments     []models.Payment `json:"payments"`
	TotalRevenue int64            `json:"totalRevenue"`
}

// ReportPayments lists all payments newest-first with the revenue sum.
func ReportPayments(ctx context.Context) (*PaymentsReport, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := paymentCollection().Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve payments", ErrUnavailable)
	}
	defer cursor.Close(ctx)

	report := &PaymentsReport{Payments: []models.Payment{}}
	if err := cursor.All(ctx, &report.Payments); err != nil {
		return nil, fmt.Errorf("%w: failed to decode payments", ErrUnavailable)
	}
	for _, p := range report.Payments {
		report.TotalRevenue += p.Amount
	}
	return report, nil
}

func countByStatus(ctx context.Context, match bson.M) (map[models.IssueStatus]int64, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := issueCollection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count issues by status", ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.IssueStatus `bson:"_id"`
		Count  int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: failed to decode status counts", ErrUnavailable)
	}

	counts := make(map[models.IssueStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func sumAmounts(ctx context.Context, match bson.M) (int64, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}},
	}
	cursor, err := paymentCollection().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to sum payments", ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("%w: failed to decode payment sum", ErrUnavailable)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func latestIssues(ctx context.Context, limit int64) ([]models.Issue, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := issueCollection().Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve latest issues", ErrUnavailable)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("%w: failed to decode latest issues", ErrUnavailable)
	}
	return issues, nil
}

func latestUsers(ctx context.Context, limit int64) ([]models.User, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := userCollection().Find(ctx, bson.M{"role": models.RoleCitizen}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve latest users", ErrUnavailable)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("%w: failed to decode latest users", ErrUnavailable)
	}
	return users, nil
}
