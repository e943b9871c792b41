// Package recommend turns a finished benchmark run into actionable
// hardware and configuration advice. Rules are independent and ordered;
// each inspects the run (plus optional community percentile ranks) and
// either emits one recommendation or stays silent.
package recommend
