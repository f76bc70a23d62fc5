// Package quiz defines submission targets: which assignment a quiz maps to,
// which directory it lives in and which files it sends.
package quiz
