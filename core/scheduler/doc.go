package scheduler

// Package scheduler implements the line-of-balance baseline schedule.
// A week-major loop admits blocks of houses into each work package
// according to the package rhythm, the learning curve, the calendar
// exceptions and the precedence between consecutive packages. The
// resulting matrix assigns one package per house per week.
