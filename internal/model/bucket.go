package model

// Bucket is a meal-time category used to group places on a guide.
type Bucket string

// Buckets produced by the classifier, plus the virtual Custom bucket that
// holds host and guest additions.
const (
	BucketBreakfast Bucket = "Breakfast"
	BucketLunch     Bucket = "Lunch"
	BucketPizza     Bucket = "Pizza"
	BucketDinner    Bucket = "Dinner"
	BucketDessert   Bucket = "Dessert"
	BucketOther     Bucket = "Other"
	BucketCustom    Bucket = "Custom"
)

// ClassifiedBuckets lists the classifier buckets in display order.
var ClassifiedBuckets = []Bucket{
	BucketBreakfast,
	BucketLunch,
	BucketPizza,
	BucketDinner,
	BucketDessert,
	BucketOther,
}

var bucketLabels = map[Bucket]string{
	BucketBreakfast: "🍳 Breakfast",
	BucketLunch:     "🥪 Lunch",
	BucketPizza:     "🍕 Pizza",
	BucketDinner:    "🍽️ Dinner",
	BucketDessert:   "🍰 Dessert",
	BucketOther:     "🗂️ Other",
	BucketCustom:    "➕ Added by Host",
}

// Label returns the heading shown above the bucket on a guide.
func (b Bucket) Label() string {
	if l, ok := bucketLabels[b]; ok {
		return l
	}
	return string(b)
}

// Classified reports whether b is one of the buckets the classifier can return.
func (b Bucket) Classified() bool {
	for _, c := range ClassifiedBuckets {
		if c == b {
			return true
		}
	}
	return false
}

// ParseBucket returns the classifier bucket named s.
func ParseBucket(s string) (Bucket, bool) {
	b := Bucket(s)
	return b, b.Classified()
}
