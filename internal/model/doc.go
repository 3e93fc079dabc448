// Package model defines shared data types used across the sync engine.
//
// Conventions:
//   - Dates: time.Time truncated to UTC midnight (daily series carry no
//     time-of-day component)
//   - Prices, volumes and amounts: decimal.Decimal in base units
//     (shares / CNY), never provider-native scaled units such as "10,000
//     lots" or "hundred million yuan"
//   - PCT_CHG: percentage points (1.5 means +1.5%)
package model
