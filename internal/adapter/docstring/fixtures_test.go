package docstring

import (
	"doctrans/internal/domain"
)

const summary = "Acquire from the official tensorflow_datasets model zoo, or the ophthalmology focussed ml-prepare library"

const returnTyp = "Union[Tuple[tf.data.Dataset, tf.data.Dataset], Tuple[np.ndarray, np.ndarray]]"

const docstringReST = `
Acquire from the official tensorflow_datasets model zoo, or the ophthalmology focussed ml-prepare library

:param dataset_name: name of dataset. Defaults to "mnist"
:type dataset_name: ` + "```str```" + `

:param tfds_dir: directory to look for models in. Defaults to "~/tensorflow_datasets"
:type tfds_dir: ` + "```Optional[str]```" + `

:param K: backend engine, e.g., ` + "`np` or `tf`" + `. Defaults to "np"
:type K: ` + "```Literal['np', 'tf']```" + `

:param as_numpy: Convert to numpy ndarrays
:type as_numpy: ` + "```Optional[bool]```" + `

:param data_loader_kwargs: pass this as arguments to data_loader function
:type data_loader_kwargs: ` + "```**data_loader_kwargs```" + `

:return: Train and tests dataset splits. Defaults to (np.empty(0), np.empty(0))
:rtype: ` + "```" + returnTyp + "```" + `
`

const docstringReSTNoDefaultDoc = `
Acquire from the official tensorflow_datasets model zoo, or the ophthalmology focussed ml-prepare library

:param dataset_name: name of dataset.
:type dataset_name: ` + "```str```" + `

:param tfds_dir: directory to look for models in.
:type tfds_dir: ` + "```Optional[str]```" + `

:param K: backend engine, e.g., ` + "`np` or `tf`" + `.
:type K: ` + "```Literal['np', 'tf']```" + `

:param as_numpy: Convert to numpy ndarrays
:type as_numpy: ` + "```Optional[bool]```" + `

:param data_loader_kwargs: pass this as arguments to data_loader function
:type data_loader_kwargs: ` + "```**data_loader_kwargs```" + `

:return: Train and tests dataset splits.
:rtype: ` + "```" + returnTyp + "```" + `
`

const docstringGoogle = `
Acquire from the official tensorflow_datasets model zoo, or the ophthalmology focussed ml-prepare library

Args:
  dataset_name (str): name of dataset. Defaults to "mnist"
  tfds_dir (Optional[str]): directory to look for models in. Defaults to "~/tensorflow_datasets"
  K (Literal['np', 'tf']): backend engine, e.g., ` + "`np` or `tf`" + `. Defaults to "np"
  as_numpy (Optional[bool]): Convert to numpy ndarrays
  data_loader_kwargs (dict): pass this as arguments to data_loader function

Returns:
  Union[Tuple[tf.data.Dataset, tf.data.Dataset], Tuple[np.ndarray, np.ndarray]]:
   Train and tests dataset splits. Defaults to (np.empty(0), np.empty(0))
`

const docstringNumpydoc = `
Acquire from the official tensorflow_datasets model zoo, or the ophthalmology focussed ml-prepare library

Parameters
----------
dataset_name : str
    name of dataset. Defaults to "mnist"
tfds_dir : Optional[str]
    directory to look for models in. Defaults to "~/tensorflow_datasets"
K : Literal['np', 'tf']
    backend engine, e.g., ` + "`np` or `tf`" + `. Defaults to "np"
as_numpy : Optional[bool]
    Convert to numpy ndarrays
data_loader_kwargs : dict
    pass this as arguments to data_loader function

Returns
-------
Union[Tuple[tf.data.Dataset, tf.data.Dataset], Tuple[np.ndarray, np.ndarray]]
    Train and tests dataset splits. Defaults to (np.empty(0), np.empty(0))

`

const docstringNumpydocOnlyParams = `
Parameters
----------
dataset_name : str
    name of dataset. Defaults to "mnist"
tfds_dir : Optional[str]
    directory to look for models in. Defaults to "~/tensorflow_datasets"
K : Literal['np', 'tf']
    backend engine, e.g., ` + "`np` or `tf`" + `. Defaults to "np"
as_numpy : Optional[bool]
    Convert to numpy ndarrays
data_loader_kwargs : dict
    pass this as arguments to data_loader function
`

const docstringNumpydocOnlyReturns = `
Returns
-------
Union[Tuple[tf.data.Dataset, tf.data.Dataset], Tuple[np.ndarray, np.ndarray]]
    Train and tests dataset splits. Defaults to (np.empty(0), np.empty(0))

`

const docstringNumpydocOnlyDoc = `
Acquire from the official tensorflow_datasets model zoo, or the ophthalmology focussed ml-prepare library
`

const docstringExtraColons = `
Some comment

:param dataset_name: Example: foo
:type dataset_name: ` + "```str```" + `
`

const docstringOnlyReturnType = `
Some comment

:param dataset_name: Example: foo

:return: Train and tests dataset splits.
:rtype: ` + "```" + returnTyp + "```" + `
`

// https://github.com/tensorflow/tensorflow/blob/7ad2723/tensorflow/python/keras/losses.py#L803-L840
const docstringSquaredHinge = `
Computes the squared hinge loss between ` + "`y_true` and `y_pred`" + `.
` + "`loss = square(maximum(1 - y_true * y_pred, 0))`" + `
` + "`y_true`" + ` values are expected to be -1 or 1. If binary (0 or 1) labels are
provided we will convert them to -1 or 1.
Standalone usage:
>>> y_true = [[0., 1.], [0., 0.]]
>>> y_pred = [[0.6, 0.4], [0.4, 0.6]]
>>> # Using 'auto'/'sum_over_batch_size' reduction type.
>>> h = tf.keras.losses.SquaredHinge()
>>> h(y_true, y_pred).numpy()
1.86
>>> # Calling with 'sample_weight'.
>>> h(y_true, y_pred, sample_weight=[1, 0]).numpy()
0.73
>>> # Using 'sum' reduction type.
>>> h = tf.keras.losses.SquaredHinge(
...     reduction=tf.keras.losses.Reduction.SUM)
>>> h(y_true, y_pred).numpy()
3.72
>>> # Using 'none' reduction type.
>>> h = tf.keras.losses.SquaredHinge(
...     reduction=tf.keras.losses.Reduction.NONE)
>>> h(y_true, y_pred).numpy()
array([1.46, 2.26], dtype=float32)
Usage with the ` + "`compile()`" + ` API:
` + "```python" + `
model.compile(optimizer='sgd', loss=tf.keras.losses.SquaredHinge())
` + "```" + `
`

// fullIR is the canonical IR with the default phrasing kept in the docs.
func fullIR() domain.IR {
	return domain.IR{
		Type: domain.KindStatic,
		Doc:  summary,
		Params: []domain.Param{
			{Name: "dataset_name", Typ: "str", Doc: `name of dataset. Defaults to "mnist"`, Default: `"mnist"`},
			{Name: "tfds_dir", Typ: "Optional[str]", Doc: `directory to look for models in. Defaults to "~/tensorflow_datasets"`, Default: `"~/tensorflow_datasets"`},
			{Name: "K", Typ: "Literal['np', 'tf']", Doc: "backend engine, e.g., `np` or `tf`. Defaults to \"np\"", Default: `"np"`},
			{Name: "as_numpy", Typ: "Optional[bool]", Doc: "Convert to numpy ndarrays"},
			{Name: "data_loader_kwargs", Typ: "dict", Doc: "pass this as arguments to data_loader function"},
		},
		Returns: &domain.Param{
			Name:    domain.ReturnName,
			Typ:     returnTyp,
			Doc:     "Train and tests dataset splits. Defaults to (np.empty(0), np.empty(0))",
			Default: "(np.empty(0), np.empty(0))",
		},
	}
}

// noDefaultDocIR is fullIR with the default phrasing stripped from the docs.
func noDefaultDocIR() domain.IR {
	return domain.IR{
		Type: domain.KindStatic,
		Doc:  summary,
		Params: []domain.Param{
			{Name: "dataset_name", Typ: "str", Doc: "name of dataset.", Default: `"mnist"`},
			{Name: "tfds_dir", Typ: "Optional[str]", Doc: "directory to look for models in.", Default: `"~/tensorflow_datasets"`},
			{Name: "K", Typ: "Literal['np', 'tf']", Doc: "backend engine, e.g., `np` or `tf`.", Default: `"np"`},
			{Name: "as_numpy", Typ: "Optional[bool]", Doc: "Convert to numpy ndarrays"},
			{Name: "data_loader_kwargs", Typ: "dict", Doc: "pass this as arguments to data_loader function"},
		},
		Returns: &domain.Param{
			Name:    domain.ReturnName,
			Typ:     returnTyp,
			Doc:     "Train and tests dataset splits.",
			Default: "(np.empty(0), np.empty(0))",
		},
	}
}
