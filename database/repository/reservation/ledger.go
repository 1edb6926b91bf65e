package reservationRepo

import "spotshare/models"

// nextAvailableOnReserve computes the availableSlots value after a
// reservation. A missing spot document is treated as zero available by
// the callers, so it lands here as available <= 0 and is rejected;
// reserving never implicitly creates capacity.
func nextAvailableOnReserve(available int) (int, error) {
	if available <= 0 {
		return 0, models.ErrNoCapacity
	}
	return available - 1, nil
}

// nextAvailableOnFinish computes the availableSlots value after a
// release. The result is capped at capacity so repeated finish calls
// can never drive the counter above it. An unknown capacity
// (capacityKnown false) is treated as unbounded.
func nextAvailableOnFinish(available, capacity int, capacityKnown bool) int {
	next := available + 1
	if capacityKnown && next > capacity {
		return capacity
	}
	return next
}
