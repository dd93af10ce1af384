package bench

// Record holds one method's evaluation metrics as read from a result file.
type Record struct {
	Precision float64
	Recall    float64
	FN        int64
	FP        int64
	TPCall    int64 // true-positive calls, passed through unchanged
	F1        float64
}

// Result is a Record together with the file it came from and the method
// label derived from that file's path.
type Result struct {
	Path   string
	Method string
	Record
}
