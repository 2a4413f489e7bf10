package kvstore

// StoragePublisher receives the key of every successful write or removal.
type StoragePublisher interface {
	PublishStorage(key string)
}

// Observed decorates a Store so that every successful Set or Remove is
// announced, the way a storage event reaches other tabs of the same profile.
type Observed struct {
	Store
	pub StoragePublisher
}

func NewObserved(store Store, pub StoragePublisher) *Observed {
	return &Observed{Store: store, pub: pub}
}

func (o *Observed) Set(key string, value []byte) error {
	if err := o.Store.Set(key, value); err != nil {
		return err
	}
	o.pub.PublishStorage(key)
	return nil
}

func (o *Observed) Remove(key string) error {
	if err := o.Store.Remove(key); err != nil {
		return err
	}
	o.pub.PublishStorage(key)
	return nil
}
